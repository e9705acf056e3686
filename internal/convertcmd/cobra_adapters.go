package convertcmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/convert"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/layout"
	"github.com/spf13/cobra"
)

// NewConvertCmd creates the convert command turning a CVAT export into a YOLO dataset
func NewConvertCmd() *cobra.Command {
	var opts convert.Options
	var valSize string

	cmd := &cobra.Command{
		Use:   "convert [archive]",
		Short: "Convert a CVAT YOLO export into a train/val dataset",
		Long: `Convert a CVAT "YOLO 1.1" export archive into the directory layout used by YOLO training.

The archive is extracted into ./archive, images and labels from obj_train_data are
copied into <root>/images/{train,val} and <root>/labels/{train,val}, and <root>.yaml
is written with the class list from obj.names.

The first ceil(images * val) images, in name order, go to validation together with
their labels. When that would be every image, all images stay in train.

Without an archive argument the command asks for the archive and the validation size.`,
		Example: `  # Interactive, prompts for archive and validation size
  cvat2yolo convert

  # 20% validation split
  cvat2yolo convert task_helmets.zip --val 0.2

  # Custom output directory and a parquet split manifest
  cvat2yolo convert task_helmets.zip --val 0.2 --workdir ./datasets --manifest split.parquet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Archive = args[0]
			}

			valSet := cmd.Flags().Changed("val")
			if !valSet {
				if env := os.Getenv("CVAT2YOLO_VAL_SIZE"); env != "" {
					valSize = env
					valSet = true
				}
			}
			if valSet {
				v, err := parseValidationSize(valSize)
				if err != nil {
					return err
				}
				opts.ValidationSize = v
			}
			if !cmd.Flags().Changed("root") {
				if env := os.Getenv("CVAT2YOLO_ROOT"); env != "" {
					opts.Root = env
				}
			}

			return executeConvert(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, valSet)
		},
	}

	cmd.Flags().StringVar(&valSize, "val", "", "Validation size, fraction of images in 0..1 (env CVAT2YOLO_VAL_SIZE)")
	cmd.Flags().StringVar(&opts.Root, "root", layout.DefaultRoot, "Dataset root directory and descriptor name (env CVAT2YOLO_ROOT)")
	cmd.Flags().StringVar(&opts.WorkDir, "workdir", ".", "Directory receiving the extracted archive and the dataset")
	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "Write a split manifest (.parquet or .jsonl)")

	return cmd
}

// NewManifestCmd creates the manifest command printing a split manifest
func NewManifestCmd() *cobra.Command {
	var path string
	var format string
	var descriptorPath string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print a split manifest written by convert",
		Long: `Print the split manifest recorded by "convert --manifest".

Each row is one copied file with its kind (image or label), subset (train or val),
source and destination. With --descriptor the dataset YAML written next to it
is printed as well.`,
		Example: `  # Summary and file list
  cvat2yolo manifest --path split.parquet

  # CSV for spreadsheets
  cvat2yolo manifest --path split.jsonl --format csv

  # Include the class list from the dataset descriptor
  cvat2yolo manifest --path split.parquet --descriptor sorted.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("manifest file not found: %s", path)
			}

			return executeManifest(cmd.OutOrStdout(), path, format, descriptorPath)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Path to the manifest file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")
	cmd.Flags().StringVar(&descriptorPath, "descriptor", "", "Dataset descriptor to print with the text report")

	_ = cmd.MarkFlagRequired("path")
	return cmd
}
