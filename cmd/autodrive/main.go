// Command autodrive inspects steering-angle manifests before training.
//
// Usage:
//
//	autodrive stats --data ./data --mode train
//	autodrive check --data ./data --mode val --strict
//	autodrive hist  --data ./data --out labels.png --bins 40
//
// Flags can also come from a YAML file (--config) or AUTODRIVE_* environment
// variables, e.g. AUTODRIVE_DATA=/data.
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}
