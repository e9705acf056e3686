package convert

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/archive"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/cvat"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/descriptor"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/layout"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/manifest"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/partition"
)

// Options configures a single conversion
type Options struct {
	// WorkDir receives the extracted archive, the dataset root and the descriptor
	WorkDir string
	// Archive is the CVAT export zip
	Archive string
	// ValidationSize is the fraction of images reserved for validation, 0..1
	ValidationSize float64
	// Root names the dataset directory and the descriptor file
	Root string
	// ManifestPath, when set, receives a record of every copy (.parquet or .jsonl)
	ManifestPath string
}

// Result summarizes a finished conversion
type Result struct {
	RunID          string
	ClassNames     []string
	TrainImages    int
	ValImages      int
	TrainLabels    int
	ValLabels      int
	DatasetDir     string
	DescriptorPath string
	ManifestPath   string
	Duration       time.Duration
}

func (o *Options) validate() error {
	if o.Archive == "" {
		return failure.E(failure.InvalidInput, "validate options", "", fmt.Errorf("archive path is required"))
	}
	if math.IsNaN(o.ValidationSize) || o.ValidationSize < 0 || o.ValidationSize > 1 {
		return failure.E(failure.InvalidInput, "validate options", "", fmt.Errorf("validation size must be within 0..1, got %v", o.ValidationSize))
	}
	if o.ManifestPath != "" && !manifest.Supported(o.ManifestPath) {
		return failure.E(failure.InvalidInput, "validate options", o.ManifestPath, fmt.Errorf("manifest must end in .parquet or .jsonl"))
	}
	if o.WorkDir == "" {
		o.WorkDir = "."
	}
	if o.Root == "" {
		o.Root = layout.DefaultRoot
	}
	return nil
}

// Run scaffolds the dataset layout, extracts the archive, splits the export
// into train and val and writes the descriptor. The first failure stops the
// run; whatever was already written stays on disk.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	slog.Info("Starting conversion", "run_id", runID, "archive", opts.Archive, "workdir", opts.WorkDir, "root", opts.Root, "validation_size", opts.ValidationSize)

	l := layout.New(opts.WorkDir, opts.Root)
	if err := l.Create(); err != nil {
		return nil, fmt.Errorf("failed to create dataset layout: %w", err)
	}

	exportDir := filepath.Join(opts.WorkDir, archive.DefaultDir)
	if err := archive.Extract(opts.Archive, exportDir); err != nil {
		return nil, fmt.Errorf("failed to extract archive: %w", err)
	}

	classNames, err := cvat.ReadClassNames(exportDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}
	slog.Info("Loaded class list", "classes", len(classNames))

	files, err := cvat.ListTrainData(exportDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list export files: %w", err)
	}

	plan, err := partition.Split(files, opts.ValidationSize)
	if err != nil {
		return nil, err
	}
	if opts.ValidationSize > 0 && plan.ValidationCount == 0 && len(plan.Images) > 0 {
		slog.Warn("Validation split would take every image, keeping all images in train", "images", len(plan.Images), "validation_size", opts.ValidationSize)
	}
	slog.Info("Split planned", "images", len(plan.Images), "labels", len(plan.Labels), "validation_images", plan.ValidationCount)

	copies, err := partition.Apply(ctx, plan, cvat.TrainDataPath(exportDir), l)
	if err != nil {
		return nil, fmt.Errorf("failed to copy files: %w", err)
	}

	descriptorPath := filepath.Join(opts.WorkDir, descriptor.FileName(opts.Root))
	if err := descriptor.New(opts.Root, classNames).Write(descriptorPath); err != nil {
		return nil, failure.E(failure.DestinationWriteError, "write descriptor", descriptorPath, err)
	}
	slog.Info("Wrote dataset descriptor", "path", descriptorPath)

	if opts.ManifestPath != "" {
		if err := manifest.Save(opts.ManifestPath, manifestEntries(runID, copies)); err != nil {
			return nil, failure.E(failure.DestinationWriteError, "write manifest", opts.ManifestPath, err)
		}
		slog.Info("Wrote split manifest", "path", opts.ManifestPath, "entries", len(copies))
	}

	result := &Result{
		RunID:          runID,
		ClassNames:     classNames,
		TrainImages:    plan.Count(partition.Image, layout.Train),
		ValImages:      plan.Count(partition.Image, layout.Val),
		TrainLabels:    plan.Count(partition.Label, layout.Train),
		ValLabels:      plan.Count(partition.Label, layout.Val),
		DatasetDir:     l.RootDir(),
		DescriptorPath: descriptorPath,
		ManifestPath:   opts.ManifestPath,
		Duration:       time.Since(start),
	}

	slog.Info("Conversion finished", "run_id", runID, "train_images", result.TrainImages, "val_images", result.ValImages, "duration", result.Duration)
	return result, nil
}

func manifestEntries(runID string, copies []partition.Copy) []manifest.Entry {
	entries := make([]manifest.Entry, 0, len(copies))
	for _, c := range copies {
		entries = append(entries, manifest.Entry{
			RunID:       runID,
			File:        c.Name,
			Kind:        string(c.Kind),
			Subset:      string(c.Subset),
			Source:      c.Source,
			Destination: c.Destination,
		})
	}
	return entries
}
