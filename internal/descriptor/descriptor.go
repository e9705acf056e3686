package descriptor

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Descriptor is the dataset file consumed by YOLO training pipelines
type Descriptor struct {
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// New builds the descriptor for a dataset rooted at root. Subset paths are
// rooted at "/<root>", so the default root gives /sorted/images/train.
func New(root string, names []string) *Descriptor {
	if names == nil {
		names = []string{}
	}
	return &Descriptor{
		Train: path.Join("/", root, "images", "train"),
		Val:   path.Join("/", root, "images", "val"),
		NC:    len(names),
		Names: names,
	}
}

// FileName returns the descriptor file name for root
func FileName(root string) string {
	return root + ".yaml"
}

// Write saves the descriptor as block-style YAML
func (d *Descriptor) Write(filename string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	return nil
}

// Load reads a descriptor file
func Load(filename string) (*Descriptor, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &d, nil
}
