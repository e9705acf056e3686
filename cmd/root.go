package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/convertcmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "cvat2yolo",
		Short: "Convert CVAT annotation exports into YOLO training datasets",
		Long: `cvat2yolo turns a CVAT "YOLO 1.1" export archive into the dataset layout used by
YOLO training pipelines: images/{train,val}, labels/{train,val} and a dataset YAML file.

Defaults can be set in the environment or a .env file (CVAT2YOLO_VAL_SIZE, CVAT2YOLO_ROOT).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(convertcmd.NewConvertCmd())
	cmd.AddCommand(convertcmd.NewManifestCmd())

	return cmd
}
