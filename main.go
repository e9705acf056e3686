package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/lehigh-university-libraries/cvat2yolo/cmd"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd()

	// fang adds styled errors, completions, manpages and --version
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(failure.ExitCode(err))
	}
}
