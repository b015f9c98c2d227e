package datasets

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestResolvePath(t *testing.T) {
	root := filepath.FromSlash("/data")

	got := ResolvePath(root, "images/a.jpg")
	want := filepath.Join(root, "images", "a.jpg")
	if got != want {
		t.Fatalf("relative path: expected %q, got %q", want, got)
	}

	abs := filepath.FromSlash("/abs/b.jpg")
	if got := ResolvePath(root, abs); got != abs {
		t.Fatalf("absolute path: expected %q unchanged, got %q", abs, got)
	}
}

// TestParseManifest_Leniency verifies blank and single-token lines are skipped
// and extra tokens are ignored.
func TestParseManifest_Leniency(t *testing.T) {
	root := filepath.FromSlash("/data")
	abs := filepath.FromSlash("/abs/b.jpg")
	manifest := strings.Join([]string{
		"images/a.jpg 0.35",
		"",
		"   ",
		"lonely_token.jpg",
		abs + "\t-0.1  extra tokens here",
	}, "\n")

	entries, err := ParseManifest(strings.NewReader(manifest), root)
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}

	expected := []Entry{
		{Path: filepath.Join(root, "images", "a.jpg"), Angle: 0.35},
		{Path: abs, Angle: -0.1},
	}
	if !reflect.DeepEqual(entries, expected) {
		t.Fatalf("unexpected entries: got %+v expected %+v", entries, expected)
	}
}

func TestParseManifest_MalformedLabel(t *testing.T) {
	manifest := "a.jpg 0.5\nb.jpg left\n"
	_, err := ParseManifest(strings.NewReader(manifest), "/data")
	if err == nil {
		t.Fatalf("expected error for non-numeric label, got nil")
	}
	if !errors.Is(err, ErrMalformedLabel) {
		t.Fatalf("expected ErrMalformedLabel, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected error to name line 2, got %v", err)
	}
}

func TestParseManifest_Empty(t *testing.T) {
	entries, err := ParseManifest(strings.NewReader("\n\n"), "/data")
	if err != nil {
		t.Fatalf("ParseManifest failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := map[string]string{
		"":      ModeTrain,
		"train": ModeTrain,
		"TRAIN": ModeTrain,
		"Val":   ModeVal,
	}
	for in, want := range cases {
		got, err := normalizeMode(in)
		if err != nil {
			t.Fatalf("normalizeMode(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("normalizeMode(%q): expected %q, got %q", in, want, got)
		}
	}

	if _, err := normalizeMode("test"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode for \"test\", got %v", err)
	}
}

func TestParseAngle(t *testing.T) {
	for in, want := range map[string]float64{
		" 0.25 ":  0.25,
		"-1e-3":   -0.001,
		"+2":      2,
		"1e400":   math.Inf(1),
		"-1e400":  math.Inf(-1),
		"inf":     math.Inf(1),
		"-0.0000": 0,
	} {
		got, err := parseAngle(in)
		if err != nil {
			t.Fatalf("parseAngle(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("parseAngle(%q): expected %v, got %v", in, want, got)
		}
	}

	for _, in := range []string{"", "abc", "0x1p-2", "-0X10", "1,5"} {
		if _, err := parseAngle(in); err == nil {
			t.Fatalf("parseAngle(%q): expected error", in)
		}
	}
}
