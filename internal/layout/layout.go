package layout

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
)

// DefaultRoot is the name of the output directory when none is given
const DefaultRoot = "sorted"

// Subset identifies the train or validation split
type Subset string

const (
	Train Subset = "train"
	Val   Subset = "val"
)

// Layout holds the YOLO dataset directories under a working directory
type Layout struct {
	WorkDir string
	Root    string
}

// New returns the layout for root under workDir. An empty root means DefaultRoot.
func New(workDir, root string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	return Layout{WorkDir: workDir, Root: root}
}

// RootDir returns the dataset root directory
func (l Layout) RootDir() string {
	return filepath.Join(l.WorkDir, l.Root)
}

// ImagesDir returns the image directory for a subset
func (l Layout) ImagesDir(s Subset) string {
	return filepath.Join(l.RootDir(), "images", string(s))
}

// LabelsDir returns the label directory for a subset
func (l Layout) LabelsDir(s Subset) string {
	return filepath.Join(l.RootDir(), "labels", string(s))
}

// Dirs lists every directory of the layout, parents first
func (l Layout) Dirs() []string {
	root := l.RootDir()
	return []string{
		root,
		filepath.Join(root, "images"),
		l.ImagesDir(Train),
		l.ImagesDir(Val),
		filepath.Join(root, "labels"),
		l.LabelsDir(Train),
		l.LabelsDir(Val),
	}
}

// Create makes every directory of the layout. It refuses to reuse an existing
// tree: the first directory that already exists stops it with AlreadyExists.
func (l Layout) Create() error {
	for _, dir := range l.Dirs() {
		if err := os.Mkdir(dir, 0755); err != nil {
			return failure.E(mkdirKind(err), "create directory", dir, err)
		}
		slog.Debug("Created directory", "path", dir)
	}
	return nil
}

func mkdirKind(err error) failure.Kind {
	switch {
	case errors.Is(err, fs.ErrExist):
		return failure.AlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return failure.PermissionDenied
	default:
		return failure.IOFailure
	}
}
