package datasets

import (
	"fmt"
	"image"
	"os"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Size of the blank image returned when an image cannot be loaded. It
// matches the resolution the driving data is usually resized to.
const (
	FallbackWidth  = 160
	FallbackHeight = 120
)

// ManifestDataset lazily loads the images listed in a steering manifest.
//
// It is immutable after construction, so Item and Example may be called
// concurrently as long as the Transform is safe for concurrent use.
type ManifestDataset struct {
	// DataFolder is the root directory holding the manifests.
	DataFolder string

	// Mode is "train" or "val".
	Mode string

	transform Transform
	decoder   Decoder
	toTensor  *timage.ToTensorConfig
	logf      func(format string, args ...any)

	fallbackWidth, fallbackHeight int

	manifest string
	entries  []Entry
}

var _ Dataset = (*ManifestDataset)(nil)

// Option configures a ManifestDataset.
type Option func(*ManifestDataset)

// WithDecoder replaces the default FileDecoder.
func WithDecoder(decoder Decoder) Option {
	return func(d *ManifestDataset) { d.decoder = decoder }
}

// WithFallbackSize changes the size of the blank substitute image.
func WithFallbackSize(width, height int) Option {
	return func(d *ManifestDataset) { d.fallbackWidth, d.fallbackHeight = width, height }
}

// WithLogf redirects the load failure diagnostics, which go to klog by default.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(d *ManifestDataset) { d.logf = logf }
}

// WithImageDType sets the dtype of the image tensors built by Example.
func WithImageDType(dtype dtypes.DType) Option {
	return func(d *ManifestDataset) { d.toTensor = timage.ToTensor(dtype) }
}

// NewManifestDataset parses <dataFolder>/<mode>.txt. A nil transform leaves
// images untouched and an empty mode means "train". The mode is checked case
// insensitively, but the manifest file name keeps the case given by the
// caller. Images are not opened here; they are decoded on each Item call.
func NewManifestDataset(dataFolder string, transform Transform, mode string, opts ...Option) (*ManifestDataset, error) {
	m, err := normalizeMode(mode)
	if err != nil {
		return nil, err
	}
	if transform == nil {
		transform = Identity()
	}

	if mode == "" {
		mode = m
	}
	manifest := ManifestPath(dataFolder, mode)
	if _, err := os.Stat(manifest); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrManifestNotFound, "cannot find %s data file %s", mode, manifest)
		}
		return nil, errors.Wrapf(err, "failed to stat manifest %s", manifest)
	}

	ds := &ManifestDataset{
		DataFolder:     dataFolder,
		Mode:           m,
		transform:      transform,
		decoder:        FileDecoder{},
		toTensor:       timage.ToTensor(dtypes.Float32),
		logf:           klog.Warningf,
		fallbackWidth:  FallbackWidth,
		fallbackHeight: FallbackHeight,
		manifest:       manifest,
	}
	for _, opt := range opts {
		opt(ds)
	}
	if ds.fallbackWidth <= 0 || ds.fallbackHeight <= 0 {
		return nil, errors.Errorf("invalid fallback size %dx%d", ds.fallbackWidth, ds.fallbackHeight)
	}

	ds.entries, err = ReadManifest(manifest, dataFolder)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("%s: %d entries from %s", ds.Name(), len(ds.entries), manifest)

	return ds, nil
}

// Name returns the name of the dataset.
func (d *ManifestDataset) Name() string {
	return fmt.Sprintf("ManifestDataset[%s]", d.Mode)
}

// Manifest returns the path of the manifest file the entries were read from.
func (d *ManifestDataset) Manifest() string {
	return d.manifest
}

// Len returns the number of parsed manifest entries.
func (d *ManifestDataset) Len() int {
	return len(d.entries)
}

// Entry returns the parsed manifest entry at index i.
func (d *ManifestDataset) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(d.entries) {
		return Entry{}, errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", i, len(d.entries))
	}
	return d.entries[i], nil
}

// Item loads, converts and transforms the image at index i. Only an invalid
// index is reported as an error: images that fail to load or transform are
// logged and replaced by the blank fallback sample.
func (d *ManifestDataset) Item(i int) (Sample, error) {
	entry, err := d.Entry(i)
	if err != nil {
		return Sample{}, err
	}

	sample, err := d.load(entry)
	if err != nil {
		d.logf("failed to process image %s: %v", entry.Path, err)
		return d.fallbackSample(entry.Path), nil
	}
	return sample, nil
}

// Example returns the image at index i as a [height, width, 3] tensor along
// with its [1] label tensor.
func (d *ManifestDataset) Example(i int) (img *tensors.Tensor, label *tensors.Tensor, err error) {
	sample, err := d.Item(i)
	if err != nil {
		return nil, nil, err
	}
	return d.toTensor.Single(sample.Image), sample.Label, nil
}

// load runs decode, color conversion and transform for one entry.
func (d *ManifestDataset) load(entry Entry) (Sample, error) {
	img, err := d.decoder.Decode(entry.Path)
	if err != nil {
		return Sample{}, err
	}
	if img == nil {
		return Sample{}, errors.Errorf("no image decoded from %s", entry.Path)
	}

	processed, err := d.transform.Apply(toRGB(img))
	if err != nil {
		return Sample{}, errors.Wrap(err, "transform failed")
	}

	return Sample{
		Path:  entry.Path,
		Image: processed,
		Label: tensors.FromValue([]float32{float32(entry.Angle)}),
	}, nil
}

// fallbackSample builds the blank substitute with angle 0.
func (d *ManifestDataset) fallbackSample(path string) Sample {
	var img image.Image = blankImage(d.fallbackWidth, d.fallbackHeight)
	if processed, err := d.transform.Apply(img); err != nil {
		d.logf("failed to transform fallback image for %s: %v", path, err)
	} else {
		img = processed
	}
	return Sample{
		Path:     path,
		Image:    img,
		Label:    tensors.FromValue([]float32{0}),
		Fallback: true,
	}
}
