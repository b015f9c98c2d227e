package loader

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
)

// mockSource is an in-memory datasets.Dataset where item i has angle i and an image of
// the configured size.
type mockSource struct {
	n             int
	width, height int
	sizes         map[int]image.Point
	calls         atomic.Int64
}

func (m *mockSource) Len() int { return m.n }

func (m *mockSource) Item(i int) (datasets.Sample, error) {
	m.calls.Add(1)
	if i < 0 || i >= m.n {
		return datasets.Sample{}, fmt.Errorf("index %d: %w", i, datasets.ErrIndexOutOfRange)
	}
	w, h := m.width, m.height
	if p, ok := m.sizes[i]; ok {
		w, h = p.X, p.Y
	}
	return datasets.Sample{
		Path:  fmt.Sprintf("img%d.png", i),
		Image: image.NewNRGBA(image.Rect(0, 0, w, h)),
		Label: tensors.FromValue([]float32{float32(i)}),
	}, nil
}

func (m *mockSource) Example(i int) (*tensors.Tensor, *tensors.Tensor, error) {
	s, err := m.Item(i)
	if err != nil {
		return nil, nil, err
	}
	return timage.ToTensor(dtypes.Float32).Single(s.Image), s.Label, nil
}

func batchAngles(t *testing.T, labels []*tensors.Tensor) []float32 {
	t.Helper()
	if len(labels) != 1 {
		t.Fatalf("expected 1 label tensor, got %d", len(labels))
	}
	values, ok := labels[0].Value().([][]float32)
	if !ok {
		t.Fatalf("unexpected label tensor value type %T", labels[0].Value())
	}
	out := make([]float32, len(values))
	for i, v := range values {
		if len(v) != 1 {
			t.Fatalf("expected single-element label, got %v", v)
		}
		out[i] = v[0]
	}
	return out
}

// TestLoader_Sequential checks batches come out in manifest order with a
// partial last batch followed by io.EOF, and that Reset starts over.
func TestLoader_Sequential(t *testing.T) {
	src := &mockSource{n: 5, width: 4, height: 3}
	l, err := New(src, Config{BatchSize: 2, Workers: 3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := l.NumBatches(); got != 3 {
		t.Fatalf("expected 3 batches, got %d", got)
	}

	expected := [][]float32{{0, 1}, {2, 3}, {4}}
	for b, want := range expected {
		spec, inputs, labels, err := l.Yield()
		if err != nil {
			t.Fatalf("Yield batch %d error: %v", b, err)
		}
		if spec != l {
			t.Fatalf("expected spec to be the loader")
		}
		if len(inputs) != 1 {
			t.Fatalf("expected 1 input tensor, got %d", len(inputs))
		}
		if dims := inputs[0].Shape().Dimensions; !reflect.DeepEqual(dims, []int{len(want), 3, 4, 3}) {
			t.Fatalf("batch %d: unexpected image shape %v", b, dims)
		}
		if got := batchAngles(t, labels); !reflect.DeepEqual(got, want) {
			t.Fatalf("batch %d: expected angles %v, got %v", b, want, got)
		}
	}
	if _, _, _, err := l.Yield(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of epoch, got %v", err)
	}

	l.Reset()
	_, _, labels, err := l.Yield()
	if err != nil {
		t.Fatalf("Yield after Reset error: %v", err)
	}
	if got := batchAngles(t, labels); !reflect.DeepEqual(got, []float32{0, 1}) {
		t.Fatalf("expected first batch again after Reset, got %v", got)
	}
}

func TestLoader_DropLast(t *testing.T) {
	src := &mockSource{n: 5, width: 2, height: 2}
	l, err := New(src, Config{BatchSize: 2, DropLast: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := l.NumBatches(); got != 2 {
		t.Fatalf("expected 2 batches, got %d", got)
	}
	for range 2 {
		if _, _, _, err := l.Yield(); err != nil {
			t.Fatalf("Yield error: %v", err)
		}
	}
	if _, _, _, err := l.Yield(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF instead of a partial batch, got %v", err)
	}
}

// TestLoader_Shuffle checks every example is yielded exactly once per epoch
// and that the order is not the manifest order.
func TestLoader_Shuffle(t *testing.T) {
	const n = 50
	src := &mockSource{n: n, width: 2, height: 2}
	l, err := New(src, Config{BatchSize: 8, Shuffle: rand.New(rand.NewSource(7))})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var seen []float32
	for {
		samples, err := l.Samples()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Samples error: %v", err)
		}
		for _, s := range samples {
			seen = append(seen, s.Angle())
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d samples, got %d", n, len(seen))
	}
	sorted := append([]float32(nil), seen...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	inOrder := true
	for i := range sorted {
		if sorted[i] != float32(i) {
			t.Fatalf("example %d missing or repeated: %v", i, sorted)
		}
		if seen[i] != float32(i) {
			inOrder = false
		}
	}
	if inOrder {
		t.Fatalf("expected shuffled order, got manifest order")
	}
}

func TestLoader_InconsistentSizes(t *testing.T) {
	src := &mockSource{n: 3, width: 4, height: 4, sizes: map[int]image.Point{1: {X: 5, Y: 4}}}
	l, err := New(src, Config{BatchSize: 3})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, _, _, err = l.Yield()
	if err == nil {
		t.Fatalf("expected error for mixed image sizes")
	}
	if !strings.Contains(err.Error(), "img1.png") {
		t.Fatalf("error should name the mismatched image: %v", err)
	}
}

func TestLoader_Defaults(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatalf("expected error for nil dataset")
	}
	if _, err := New(&mockSource{}, Config{BatchSize: -1}); err == nil {
		t.Fatalf("expected error for negative batch size")
	}

	l, err := New(&mockSource{n: 1, width: 1, height: 1}, Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l.Config.BatchSize != 32 || l.Config.Workers <= 0 || l.Name() != "loader" {
		t.Fatalf("defaults not applied: %+v", l.Config)
	}

	empty, err := New(&mockSource{}, Config{})
	if err != nil {
		t.Fatalf("New on empty dataset failed: %v", err)
	}
	if _, _, _, err := empty.Yield(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF for empty dataset, got %v", err)
	}
}
