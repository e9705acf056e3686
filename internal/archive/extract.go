package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
)

// DefaultDir is the directory name the export is unpacked into
const DefaultDir = "archive"

// Extract unpacks every entry of the zip archive at archivePath into destDir.
// Existing files in destDir are overwritten.
func Extract(archivePath, destDir string) error {
	slog.Info("Extracting archive", "archive", archivePath, "dest", destDir)

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return failure.E(openKind(err), "open archive", archivePath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return failure.E(failure.ExtractionIOError, "create extraction directory", destDir, err)
	}

	extracted := 0
	for _, file := range reader.File {
		target, err := entryPath(destDir, file.Name)
		if err != nil {
			return failure.E(failure.ArchiveCorrupt, "resolve entry", file.Name, err)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return failure.E(failure.ExtractionIOError, "create directory", target, err)
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
		extracted++
	}

	slog.Info("Archive extracted", "files", extracted, "entries", len(reader.File))
	return nil
}

// entryPath resolves name under destDir, rejecting entries that would land outside it
func entryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("entry escapes extraction directory: %s", name)
	}
	return target, nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return failure.E(failure.ExtractionIOError, "create directory", filepath.Dir(target), err)
	}

	src, err := file.Open()
	if err != nil {
		return failure.E(entryKind(err), "open entry", file.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return failure.E(failure.ExtractionIOError, "create file", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return failure.E(entryKind(err), "extract entry", file.Name, err)
	}

	if err := dst.Close(); err != nil {
		return failure.E(failure.ExtractionIOError, "close file", target, err)
	}

	slog.Debug("Extracted entry", "name", file.Name, "size", file.UncompressedSize64)
	return nil
}

// openKind classifies an OpenReader failure. File system errors come back as
// *fs.PathError; anything else is the reader rejecting the archive contents.
func openKind(err error) failure.Kind {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return failure.ArchiveNotFound
	case isZipFormatError(err):
		return failure.ArchiveCorrupt
	case errors.As(err, &pathErr):
		return failure.ExtractionIOError
	default:
		return failure.ArchiveCorrupt
	}
}

func entryKind(err error) failure.Kind {
	if isZipFormatError(err) || errors.Is(err, io.ErrUnexpectedEOF) {
		return failure.ArchiveCorrupt
	}
	return failure.ExtractionIOError
}

func isZipFormatError(err error) bool {
	return errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) || errors.Is(err, zip.ErrAlgorithm)
}
