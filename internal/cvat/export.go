package cvat

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
)

// Files and directories of a CVAT "YOLO 1.1" export
const (
	NamesFile    = "obj.names"
	TrainDataDir = "obj_train_data"
)

// ReadClassNames reads the ordered class list from the export's names file.
// Line order defines the numeric class IDs used by the label files.
func ReadClassNames(exportDir string) ([]string, error) {
	path := filepath.Join(exportDir, NamesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.E(failure.ArchiveCorrupt, "read class names", path, err)
		}
		return nil, failure.E(failure.IOFailure, "read class names", path, err)
	}

	names := ParseClassNames(string(data))
	slog.Debug("Read class names", "path", path, "count", len(names))
	return names, nil
}

// ParseClassNames splits newline-separated class names. Surrounding blank
// lines are dropped; an empty input has no classes.
func ParseClassNames(data string) []string {
	data = strings.TrimSpace(data)
	if data == "" {
		return []string{}
	}

	lines := strings.Split(data, "\n")
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, strings.TrimSuffix(line, "\r"))
	}
	return names
}

// ListTrainData returns the file names in the export's train data directory,
// sorted by name. Subdirectories are skipped. A missing directory yields an
// empty listing.
func ListTrainData(exportDir string) ([]string, error) {
	dir := TrainDataPath(exportDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Export has no train data directory", "path", dir)
			return []string{}, nil
		}
		return nil, failure.E(failure.IOFailure, "list train data", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// TrainDataPath returns the train data directory of an extracted export
func TrainDataPath(exportDir string) string {
	return filepath.Join(exportDir, TrainDataDir)
}
