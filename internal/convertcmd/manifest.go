package convertcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/descriptor"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/manifest"
)

func executeManifest(out io.Writer, path, format, descriptorPath string) error {
	entries, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	var d *descriptor.Descriptor
	if descriptorPath != "" {
		d, err = descriptor.Load(descriptorPath)
		if err != nil {
			return fmt.Errorf("failed to load descriptor: %w", err)
		}
	}

	switch format {
	case "text":
		return printTextManifest(out, entries, d)
	case "json":
		return printJSONManifest(out, entries)
	case "csv":
		return printCSVManifest(out, entries)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextManifest(out io.Writer, entries []manifest.Entry, d *descriptor.Descriptor) error {
	counts := make(map[string]int)
	seen := make(map[string]bool)
	var runs []string
	for _, e := range entries {
		counts[e.Kind+"/"+e.Subset]++
		if !seen[e.RunID] {
			seen[e.RunID] = true
			runs = append(runs, e.RunID)
		}
	}
	sort.Strings(runs)

	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, "Split Manifest")
	fmt.Fprintln(out, "========================================")
	for _, run := range runs {
		fmt.Fprintf(out, "Run:            %s\n", run)
	}
	fmt.Fprintf(out, "Files:          %d\n", len(entries))
	fmt.Fprintf(out, "Train images:   %d\n", counts["image/train"])
	fmt.Fprintf(out, "Val images:     %d\n", counts["image/val"])
	fmt.Fprintf(out, "Train labels:   %d\n", counts["label/train"])
	fmt.Fprintf(out, "Val labels:     %d\n", counts["label/val"])
	if d != nil {
		fmt.Fprintf(out, "Train path:     %s\n", d.Train)
		fmt.Fprintf(out, "Val path:       %s\n", d.Val)
		fmt.Fprintf(out, "Classes:        %d %v\n", d.NC, d.Names)
	}
	fmt.Fprintln(out, "========================================")

	sorted := make([]manifest.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Subset != sorted[j].Subset {
			return sorted[i].Subset < sorted[j].Subset
		}
		return sorted[i].File < sorted[j].File
	})

	for _, e := range sorted {
		fmt.Fprintf(out, "  [%-5s] %-5s %s\n", e.Subset, e.Kind, e.File)
	}

	return nil
}

func printJSONManifest(out io.Writer, entries []manifest.Entry) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func printCSVManifest(out io.Writer, entries []manifest.Entry) error {
	writer := csv.NewWriter(out)

	header := []string{"Run", "File", "Kind", "Subset", "Source", "Destination"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{e.RunID, e.File, e.Kind, e.Subset, e.Source, e.Destination}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
