package convertcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/convert"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
)

func executeConvert(ctx context.Context, in io.Reader, out io.Writer, opts convert.Options, valSet bool) error {
	reader := bufio.NewReader(in)

	if opts.Archive == "" {
		entries, err := os.ReadDir(".")
		if err != nil {
			return fmt.Errorf("failed to list current directory: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		fmt.Fprintf(out, "Current directory content: %v\n", names)

		answer, err := prompt(reader, out, "Write source zip-filename from current directory: ")
		if err != nil {
			return err
		}
		opts.Archive = answer
	}

	if !valSet {
		answer, err := prompt(reader, out, "Validation size (float value of 0..1): ")
		if err != nil {
			return err
		}
		v, err := parseValidationSize(answer)
		if err != nil {
			return err
		}
		opts.ValidationSize = v
	}

	result, err := convert.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDataset created successfully!\n")
	fmt.Fprintf(out, "  Classes:      %d %v\n", len(result.ClassNames), result.ClassNames)
	fmt.Fprintf(out, "  Train:        %d images, %d labels\n", result.TrainImages, result.TrainLabels)
	fmt.Fprintf(out, "  Validation:   %d images, %d labels\n", result.ValImages, result.ValLabels)
	fmt.Fprintf(out, "  Location:     %s\n", result.DatasetDir)
	fmt.Fprintf(out, "  Descriptor:   %s\n", result.DescriptorPath)
	if result.ManifestPath != "" {
		fmt.Fprintf(out, "  Manifest:     %s\n", result.ManifestPath)
		fmt.Fprintf(out, "\nInspect the split with:\n")
		fmt.Fprintf(out, "  cvat2yolo manifest --path %s\n", result.ManifestPath)
	}

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)

	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", failure.E(failure.InvalidInput, "read answer", "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(question), err))
	}
	return strings.TrimSpace(line), nil
}

// parseValidationSize parses the validation fraction. The range is checked by convert.Run.
func parseValidationSize(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, failure.E(failure.InvalidInput, "parse validation size", "", err)
	}
	return v, nil
}
