package main

// Example command that loads a steering manifest, wraps it in a loader and
// converts one batch into gomlx tensors.
//
// The dataset uses lazy loading - it stores image paths and angles and only
// decodes an image when the loader asks for it.
//
// Usage:
//   go run ./datasets/example -data ./data -mode train
//
// The data folder must contain train.txt (or val.txt) with lines of the form
// "<image path> <angle>". Images that cannot be read show up as blank
// 160x120 images with angle 0 and a warning in the log.

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/Noofbiz/autodrive/loader"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	dataFlag := flag.String("data", "../data", "data folder holding train.txt / val.txt")
	modeFlag := flag.String("mode", "train", "manifest to load: train or val")
	batchSize := flag.Int("batch-size", 8, "number of examples per batch")
	seed := flag.Int64("seed", 42, "shuffle seed")
	flag.Parse()
	defer klog.Flush()

	transform := datasets.Compose(datasets.CropTop(20), datasets.Resize(160, 120))
	ds, err := datasets.NewManifestDataset(*dataFlag, transform, *modeFlag)
	if err != nil {
		klog.Fatalf("failed to load manifest dataset: %v", err)
	}
	fmt.Printf("Using manifest: %s\n", ds.Manifest())
	fmt.Printf("Total examples available: %d\n", ds.Len())
	if ds.Len() == 0 {
		return
	}

	first, err := ds.Item(0)
	if err != nil {
		klog.Fatalf("failed to read first example: %v", err)
	}
	fmt.Printf("First example: %s angle=%.4f fallback=%v\n", first.Path, first.Angle(), first.Fallback)

	l, err := loader.New(ds, loader.Config{
		Name:      ds.Name(),
		BatchSize: *batchSize,
		Shuffle:   rand.New(rand.NewSource(*seed)),
	})
	if err != nil {
		klog.Fatalf("failed to create loader: %v", err)
	}

	fmt.Printf("Loading batch of %d examples (%d batches per epoch)...\n", *batchSize, l.NumBatches())
	_, inputs, labels, err := l.Yield()
	if err != nil {
		klog.Fatalf("failed to yield batch: %v", err)
	}
	fmt.Printf("Created tensors: input=%s label=%s\n", inputs[0].Shape(), labels[0].Shape())
	fmt.Println("\nExample completed successfully!")
}
