// Package loader batches a steering dataset into gomlx tensors.
//
// Loader implements gomlx's train.Dataset, so it can be handed directly to a
// train.Loop. It owns the concerns the dataset leaves out: sampling order,
// shuffling and batching. Items of a batch are fetched concurrently.
package loader

import (
	"image"
	"io"
	"math/rand"
	"runtime"
	"sync"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Config holds the batching options.
type Config struct {
	// Name reported by the train.Dataset interface. Default: "loader".
	Name string

	// BatchSize is the number of examples per Yield. Default: 32.
	BatchSize int

	// Shuffle, if set, reshuffles the order of examples on every Reset.
	// If nil, examples are yielded in manifest order.
	Shuffle *rand.Rand

	// DropLast discards the final batch when it is smaller than BatchSize.
	DropLast bool

	// Workers is the number of goroutines loading items of a batch.
	// Default: runtime.NumCPU().
	Workers int

	// DType of the image tensor. Default: Float32. Labels are always Float32.
	DType dtypes.DType
}

// Loader yields batches of ([batch, height, width, 3] images, [batch, 1]
// angles) from a datasets.Dataset, returning io.EOF at the end of each epoch.
type Loader struct {
	Config Config

	ds       datasets.Dataset
	toTensor *timage.ToTensorConfig

	// mu protects order and pos.
	mu    sync.Mutex
	order []int
	pos   int
}

var _ train.Dataset = (*Loader)(nil)

// New creates a Loader over ds, filling in defaults for zero Config fields.
func New(ds datasets.Dataset, cfg Config) (*Loader, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	if cfg.BatchSize < 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.Name == "" {
		cfg.Name = "loader"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.DType == dtypes.InvalidDType {
		cfg.DType = dtypes.Float32
	}

	l := &Loader{
		Config:   cfg,
		ds:       ds,
		toTensor: timage.ToTensor(cfg.DType),
	}
	l.Reset()
	return l, nil
}

// Name implements train.Dataset.
func (l *Loader) Name() string { return l.Config.Name }

// Reset implements train.Dataset. It rewinds to the start of the epoch and,
// if shuffling, draws a new order.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.ds.Len()
	if len(l.order) != n {
		l.order = make([]int, n)
	}
	for i := range l.order {
		l.order[i] = i
	}
	if l.Config.Shuffle != nil {
		l.Config.Shuffle.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	l.pos = 0
}

// NumBatches returns how many batches one epoch yields.
func (l *Loader) NumBatches() int {
	n, bs := l.ds.Len(), l.Config.BatchSize
	if l.Config.DropLast {
		return n / bs
	}
	return (n + bs - 1) / bs
}

// nextIndices takes the dataset indices of the next batch.
func (l *Loader) nextIndices() ([]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := len(l.order) - l.pos
	if remaining <= 0 || (l.Config.DropLast && remaining < l.Config.BatchSize) {
		return nil, io.EOF
	}
	end := l.pos + min(remaining, l.Config.BatchSize)
	indices := append([]int(nil), l.order[l.pos:end]...)
	l.pos = end
	return indices, nil
}

// Samples returns the next batch as samples rather than tensors.
func (l *Loader) Samples() ([]datasets.Sample, error) {
	indices, err := l.nextIndices()
	if err != nil {
		return nil, err
	}
	return l.fetch(indices)
}

// fetch loads the given items with up to Config.Workers goroutines, keeping
// the order of indices.
func (l *Loader) fetch(indices []int) ([]datasets.Sample, error) {
	samples := make([]datasets.Sample, len(indices))
	jobs := make(chan int)
	errChan := make(chan error, len(indices))

	var wg sync.WaitGroup
	for range min(l.Config.Workers, len(indices)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				s, err := l.ds.Item(indices[pos])
				if err != nil {
					errChan <- errors.WithMessagef(err, "loading item %d", indices[pos])
					continue
				}
				samples[pos] = s
			}
		}()
	}
	for pos := range indices {
		jobs <- pos
	}
	close(jobs)
	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	return samples, nil
}

// Yield implements train.Dataset. It returns:
//
//   - spec: the Loader itself.
//   - inputs: one tensor with the image batch, shaped [batch, height, width, 3].
//   - labels: one float32 tensor with the angles, shaped [batch, 1].
//
// All images of a batch must have the same size; use a resizing transform
// on the dataset when the source images vary.
func (l *Loader) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	samples, err := l.Samples()
	if err != nil {
		return nil, nil, nil, err
	}

	images := make([]image.Image, len(samples))
	angles := make([][]float32, len(samples))
	size := samples[0].Image.Bounds().Size()
	for i, s := range samples {
		if got := s.Image.Bounds().Size(); got != size {
			return nil, nil, nil, errors.Errorf("inconsistent image sizes in batch: %s is %v, expected %v",
				s.Path, got, size)
		}
		images[i] = s.Image
		angles[i] = []float32{s.Angle()}
	}

	inputs = []*tensors.Tensor{l.toTensor.Batch(images)}
	labels = []*tensors.Tensor{tensors.FromValue(angles)}
	return l, inputs, labels, nil
}
