package partition

import (
	"fmt"
	"math"
	"strings"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/layout"
)

// Extensions recognised in a CVAT YOLO export
const (
	ImageExt = ".jpg"
	LabelExt = ".txt"
)

// Kind tells images and label files apart
type Kind string

const (
	Image Kind = "image"
	Label Kind = "label"
)

// Assignment places one file into a subset
type Assignment struct {
	Name   string
	Kind   Kind
	Subset layout.Subset
}

// Plan is the full train/val assignment of an export, computed before any copy
type Plan struct {
	Images          []Assignment
	Labels          []Assignment
	ValidationCount int
}

// Count returns how many files of kind were assigned to subset
func (p *Plan) Count(kind Kind, subset layout.Subset) int {
	list := p.Images
	if kind == Label {
		list = p.Labels
	}

	n := 0
	for _, a := range list {
		if a.Subset == subset {
			n++
		}
	}
	return n
}

// Classify splits file names into images and labels, keeping their order.
// Names with any other extension are dropped.
func Classify(files []string) (images, labels []string) {
	images = []string{}
	labels = []string{}
	for _, name := range files {
		switch {
		case strings.HasSuffix(name, ImageExt):
			images = append(images, name)
		case strings.HasSuffix(name, LabelExt):
			labels = append(labels, name)
		}
	}
	return images, labels
}

// LabelName returns the label file name paired with an image
func LabelName(image string) string {
	return strings.TrimSuffix(image, ImageExt) + LabelExt
}

// ValidationCount returns ceil(n*fraction). When that would put every image
// into validation the count is reset to 0 and the whole set stays in train.
func ValidationCount(n int, fraction float64) (int, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return 0, failure.E(failure.InvalidInput, "validation size", "", fmt.Errorf("must be within 0..1, got %v", fraction))
	}

	count := int(math.Ceil(float64(n) * fraction))
	if count == n {
		count = 0
	}
	return count, nil
}

// Split assigns files to train or val. The first ValidationCount images, in
// the order given, go to val together with their labels; everything else
// goes to train.
func Split(files []string, fraction float64) (*Plan, error) {
	images, labels := Classify(files)

	valCount, err := ValidationCount(len(images), fraction)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Images:          make([]Assignment, 0, len(images)),
		Labels:          make([]Assignment, 0, len(labels)),
		ValidationCount: valCount,
	}

	valLabels := make(map[string]struct{}, valCount)
	for i, image := range images {
		subset := layout.Train
		if i < valCount {
			subset = layout.Val
			valLabels[LabelName(image)] = struct{}{}
		}
		plan.Images = append(plan.Images, Assignment{Name: image, Kind: Image, Subset: subset})
	}

	for _, label := range labels {
		subset := layout.Train
		if _, ok := valLabels[label]; ok {
			subset = layout.Val
		}
		plan.Labels = append(plan.Labels, Assignment{Name: label, Kind: Label, Subset: subset})
	}

	return plan, nil
}
