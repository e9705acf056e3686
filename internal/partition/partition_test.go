package partition

import (
	"math"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/cvat2yolo/internal/failure"
	"github.com/lehigh-university-libraries/cvat2yolo/internal/layout"
)

func TestClassify(t *testing.T) {
	images, labels := Classify([]string{"a.jpg", "a.txt", "b.png", "b.jpg", "notes.md", "b.txt", "train.txt.bak"})

	if !reflect.DeepEqual(images, []string{"a.jpg", "b.jpg"}) {
		t.Errorf("Unexpected images: %v", images)
	}
	if !reflect.DeepEqual(labels, []string{"a.txt", "b.txt"}) {
		t.Errorf("Unexpected labels: %v", labels)
	}
}

func TestClassifyEmpty(t *testing.T) {
	images, labels := Classify(nil)
	if len(images) != 0 || len(labels) != 0 {
		t.Errorf("Expected empty classification, got %v and %v", images, labels)
	}
}

func TestLabelName(t *testing.T) {
	tests := []struct {
		image    string
		expected string
	}{
		{image: "a.jpg", expected: "a.txt"},
		{image: "frame_000001.jpg", expected: "frame_000001.txt"},
		{image: "dotted.name.jpg", expected: "dotted.name.txt"},
	}

	for _, tt := range tests {
		if got := LabelName(tt.image); got != tt.expected {
			t.Errorf("LabelName(%s): expected %s, got %s", tt.image, tt.expected, got)
		}
	}
}

func TestValidationCount(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
		expected int
	}{
		{name: "half of four", n: 4, fraction: 0.5, expected: 2},
		{name: "rounds up", n: 3, fraction: 0.5, expected: 2},
		{name: "quarter of ten", n: 10, fraction: 0.25, expected: 3},
		{name: "small fraction still takes one", n: 2, fraction: 0.1, expected: 1},
		{name: "zero fraction", n: 4, fraction: 0, expected: 0},
		{name: "full validation resets to zero", n: 4, fraction: 1.0, expected: 0},
		{name: "rounding up to every image resets to zero", n: 5, fraction: 0.99, expected: 0},
		{name: "single image half", n: 1, fraction: 0.5, expected: 0},
		{name: "no images", n: 0, fraction: 0.5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidationCount(tt.n, tt.fraction)
			if err != nil {
				t.Fatalf("ValidationCount failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestValidationCountInvalid(t *testing.T) {
	for _, fraction := range []float64{-0.1, 1.5, math.NaN(), math.Inf(1)} {
		_, err := ValidationCount(4, fraction)
		if err == nil {
			t.Errorf("Expected error for fraction %v, got nil", fraction)
			continue
		}
		if kind := failure.KindOf(err); kind != failure.InvalidInput {
			t.Errorf("Expected InvalidInput for fraction %v, got %s", fraction, kind)
		}
	}
}

func subsetsOf(assignments []Assignment) map[string]layout.Subset {
	result := make(map[string]layout.Subset, len(assignments))
	for _, a := range assignments {
		result[a.Name] = a.Subset
	}
	return result
}

func TestSplit(t *testing.T) {
	files := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "a.txt", "b.txt", "c.txt", "d.txt"}

	tests := []struct {
		name     string
		fraction float64
		images   map[string]layout.Subset
		labels   map[string]layout.Subset
	}{
		{
			name:     "half split",
			fraction: 0.5,
			images:   map[string]layout.Subset{"a.jpg": layout.Val, "b.jpg": layout.Val, "c.jpg": layout.Train, "d.jpg": layout.Train},
			labels:   map[string]layout.Subset{"a.txt": layout.Val, "b.txt": layout.Val, "c.txt": layout.Train, "d.txt": layout.Train},
		},
		{
			name:     "full validation falls back to train",
			fraction: 1.0,
			images:   map[string]layout.Subset{"a.jpg": layout.Train, "b.jpg": layout.Train, "c.jpg": layout.Train, "d.jpg": layout.Train},
			labels:   map[string]layout.Subset{"a.txt": layout.Train, "b.txt": layout.Train, "c.txt": layout.Train, "d.txt": layout.Train},
		},
		{
			name:     "no validation",
			fraction: 0,
			images:   map[string]layout.Subset{"a.jpg": layout.Train, "b.jpg": layout.Train, "c.jpg": layout.Train, "d.jpg": layout.Train},
			labels:   map[string]layout.Subset{"a.txt": layout.Train, "b.txt": layout.Train, "c.txt": layout.Train, "d.txt": layout.Train},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Split(files, tt.fraction)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if got := subsetsOf(plan.Images); !reflect.DeepEqual(got, tt.images) {
				t.Errorf("Images: expected %v, got %v", tt.images, got)
			}
			if got := subsetsOf(plan.Labels); !reflect.DeepEqual(got, tt.labels) {
				t.Errorf("Labels: expected %v, got %v", tt.labels, got)
			}
		})
	}
}

func TestSplitFollowsInputOrder(t *testing.T) {
	plan, err := Split([]string{"d.jpg", "c.jpg", "b.jpg", "a.jpg"}, 0.5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	got := subsetsOf(plan.Images)
	if got["d.jpg"] != layout.Val || got["c.jpg"] != layout.Val {
		t.Errorf("Expected the first two listed images in val, got %v", got)
	}
	if got["a.jpg"] != layout.Train || got["b.jpg"] != layout.Train {
		t.Errorf("Expected the last two listed images in train, got %v", got)
	}
}

func TestSplitOrphans(t *testing.T) {
	// a.jpg has no label, z.txt has no image
	plan, err := Split([]string{"a.jpg", "b.jpg", "c.jpg", "b.txt", "c.txt", "z.txt"}, 0.5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if plan.ValidationCount != 2 {
		t.Fatalf("Expected ValidationCount 2, got %d", plan.ValidationCount)
	}

	expected := map[string]layout.Subset{"b.txt": layout.Val, "c.txt": layout.Train, "z.txt": layout.Train}
	if got := subsetsOf(plan.Labels); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestSplitEmpty(t *testing.T) {
	plan, err := Split([]string{"only.txt", "readme.md"}, 0.5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(plan.Images) != 0 {
		t.Errorf("Expected no images, got %v", plan.Images)
	}
	if plan.Count(Label, layout.Train) != 1 || plan.Count(Label, layout.Val) != 0 {
		t.Errorf("Expected the single label in train, got %v", plan.Labels)
	}
}

func TestSplitEveryFileAssignedOnce(t *testing.T) {
	files := []string{"1.jpg", "1.txt", "2.jpg", "2.txt", "3.jpg", "4.jpg", "4.txt", "5.txt", "x.png"}

	for _, fraction := range []float64{0, 0.2, 0.5, 0.75, 1} {
		plan, err := Split(files, fraction)
		if err != nil {
			t.Fatalf("Split(%v) failed: %v", fraction, err)
		}

		seen := map[string]int{}
		for _, a := range append(append([]Assignment{}, plan.Images...), plan.Labels...) {
			seen[a.Name]++
		}
		for _, name := range files {
			want := 1
			if name == "x.png" {
				want = 0
			}
			if seen[name] != want {
				t.Errorf("fraction %v: %s assigned %d times, expected %d", fraction, name, seen[name], want)
			}
		}

		// Labels in val are exactly the labels of val images.
		valImages := map[string]bool{}
		for _, a := range plan.Images {
			if a.Subset == layout.Val {
				valImages[LabelName(a.Name)] = true
			}
		}
		for _, a := range plan.Labels {
			if (a.Subset == layout.Val) != valImages[a.Name] {
				t.Errorf("fraction %v: label %s in %s", fraction, a.Name, a.Subset)
			}
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	files := []string{"c.jpg", "a.jpg", "b.jpg", "a.txt", "b.txt", "c.txt"}

	first, err := Split(files, 0.4)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	second, err := Split(files, 0.4)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical plans, got %+v and %+v", first, second)
	}
}

func TestSplitInvalidFraction(t *testing.T) {
	_, err := Split([]string{"a.jpg"}, 2)
	if failure.KindOf(err) != failure.InvalidInput {
		t.Errorf("Expected InvalidInput, got %v", err)
	}
}
