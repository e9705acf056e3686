package partition

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/layout"
)

// Copy records a file copied into the dataset
type Copy struct {
	Assignment
	Source      string
	Destination string
}

// Apply copies every file of the plan from srcDir into the dataset layout,
// images first. Source files are left untouched. Copies already made stay in
// place when a later one fails.
func Apply(ctx context.Context, plan *Plan, srcDir string, l layout.Layout) ([]Copy, error) {
	copies := make([]Copy, 0, len(plan.Images)+len(plan.Labels))

	assignments := make([]Assignment, 0, len(plan.Images)+len(plan.Labels))
	assignments = append(assignments, plan.Images...)
	assignments = append(assignments, plan.Labels...)

	for i, a := range assignments {
		if err := ctx.Err(); err != nil {
			return copies, err
		}

		dir := l.ImagesDir(a.Subset)
		if a.Kind == Label {
			dir = l.LabelsDir(a.Subset)
		}

		c := Copy{
			Assignment:  a,
			Source:      filepath.Join(srcDir, a.Name),
			Destination: filepath.Join(dir, a.Name),
		}
		if err := copyFile(c.Source, c.Destination); err != nil {
			return copies, err
		}

		slog.Debug("Copied file", "name", a.Name, "kind", a.Kind, "subset", a.Subset, "progress", i+1, "total", len(assignments))
		copies = append(copies, c)
	}

	return copies, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failure.E(failure.SourceFileMissing, "copy", src, err)
		}
		return failure.E(failure.IOFailure, "copy", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return failure.E(failure.DestinationWriteError, "copy", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return failure.E(failure.DestinationWriteError, "copy", dst, err)
	}

	if err := out.Close(); err != nil {
		return failure.E(failure.DestinationWriteError, "copy", dst, err)
	}
	return nil
}
