package version

import (
	"errors"
	"testing"

	apperrors "github.com/iitd/falcon-deploy/pkg/errors"
)

func TestParseTuple(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Tuple
	}{
		{
			name:     "plain version",
			input:    "7.2.0",
			expected: Tuple{7, 2, 0},
		},
		{
			name:     "suffix stripped",
			input:    "7.2.0-rc1",
			expected: Tuple{7, 2, 0},
		},
		{
			name:     "build suffix stripped",
			input:    "6.45.0-3102",
			expected: Tuple{6, 45, 0},
		},
		{
			name:     "two components",
			input:    "7.10",
			expected: Tuple{7, 10},
		},
		{
			name:     "garbage",
			input:    "garbage",
			expected: Tuple{0},
		},
		{
			name:     "partially numeric",
			input:    "7.x.0",
			expected: Tuple{0},
		},
		{
			name:     "empty",
			input:    "",
			expected: Tuple{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTuple(tt.input)
			if got.Compare(tt.expected) != 0 || len(got) != len(tt.expected) {
				t.Errorf("ParseTuple(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTupleCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "greater minor", a: "7.10.0", b: "7.2.0", expected: 1},
		{name: "less minor", a: "7.2.0", b: "7.10.0", expected: -1},
		{name: "equal", a: "7.2.0", b: "7.2.0", expected: 0},
		{name: "suffix ignored", a: "7.2.0-rc1", b: "7.2.0", expected: 0},
		{name: "prefix is less", a: "7.2", b: "7.2.0", expected: -1},
		{name: "major wins", a: "8.0.0", b: "7.99.99", expected: 1},
		{name: "garbage sorts lowest", a: "garbage", b: "0.0.1", expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTuple(tt.a).Compare(ParseTuple(tt.b)); got != tt.expected {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	tags := []string{"latest", "7.2.0", "v7.3.0", "beta", "7.10.0", "7.2.0-rc1", "", "6.45.0-3102"}
	got := Candidates(tags)

	expected := []string{"7.10.0", "7.2.0", "7.2.0-rc1", "6.45.0-3102"}
	if len(got) != len(expected) {
		t.Fatalf("Candidates = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Candidates[%d] = %q, want %q", i, got[i], expected[i])
		}
	}
}

func TestResolvePinnedTagUnchanged(t *testing.T) {
	listCalled := false
	res, err := Resolve("7.1.0", "", func() ([]string, error) {
		listCalled = true
		return []string{"7.2.0"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tag != "7.1.0" {
		t.Errorf("pinned tag overridden: got %q", res.Tag)
	}
	if listCalled {
		t.Error("catalog must not be queried for a pinned tag")
	}
}

func TestResolveLatest(t *testing.T) {
	res, err := Resolve(LatestKeyword, "", func() ([]string, error) {
		return []string{"latest", "7.2.0", "7.10.0", "beta"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tag != "7.10.0" {
		t.Errorf("got %q, want 7.10.0", res.Tag)
	}
	if res.AlreadyCurrent {
		t.Error("new install should not be AlreadyCurrent")
	}
}

func TestResolveLatestNoCandidates(t *testing.T) {
	_, err := Resolve(LatestKeyword, "", func() ([]string, error) {
		return []string{"latest", "beta", "stable"}, nil
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeVersionResolution) {
		t.Errorf("expected VERSION_RESOLUTION code, got %v", err)
	}
}

func TestResolveListError(t *testing.T) {
	catalogErr := apperrors.New(apperrors.ErrCodeCatalog, "registry unreachable")
	_, err := Resolve(LatestKeyword, "", func() ([]string, error) {
		return nil, catalogErr
	})
	if !errors.Is(err, catalogErr) {
		t.Errorf("catalog error should propagate, got %v", err)
	}
}

func TestResolveAlreadyCurrent(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		installed string
		current   bool
	}{
		{name: "same version", requested: "7.2.0", installed: "7.2.0", current: true},
		{name: "downgrade refused", requested: "7.1.9", installed: "7.2.0", current: true},
		{name: "upgrade proceeds", requested: "7.3.0", installed: "7.2.0", current: false},
		{name: "no installed release", requested: "7.2.0", installed: "", current: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.requested, tt.installed, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.AlreadyCurrent != tt.current {
				t.Errorf("AlreadyCurrent = %v, want %v", res.AlreadyCurrent, tt.current)
			}
		})
	}
}

func TestResolveLatestAlreadyCurrent(t *testing.T) {
	res, err := Resolve(LatestKeyword, "7.10.0", func() ([]string, error) {
		return []string{"7.10.0", "7.2.0"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.AlreadyCurrent {
		t.Error("installed at resolved latest should be AlreadyCurrent")
	}
	if res.Tag != "7.10.0" {
		t.Errorf("got %q, want 7.10.0", res.Tag)
	}
}
