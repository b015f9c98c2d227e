package main

import (
	"fmt"
	"io"
	"math"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// labelStats summarizes the angles of a manifest.
type labelStats struct {
	Count    int
	Min, Max float64
	Mean     float64
	Zero     int
}

func computeStats(ds *datasets.ManifestDataset) (labelStats, error) {
	s := labelStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for i := range ds.Len() {
		e, err := ds.Entry(i)
		if err != nil {
			return labelStats{}, err
		}
		s.Count++
		sum += e.Angle
		s.Min = math.Min(s.Min, e.Angle)
		s.Max = math.Max(s.Max, e.Angle)
		if e.Angle == 0 {
			s.Zero++
		}
	}
	if s.Count == 0 {
		return labelStats{}, nil
	}
	s.Mean = sum / float64(s.Count)
	return s, nil
}

func (s labelStats) write(w io.Writer, name string) {
	fmt.Fprintf(w, "%s: %d entries\n", name, s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "  angle min=%.4f max=%.4f mean=%.4f\n", s.Min, s.Max, s.Mean)
	fmt.Fprintf(w, "  zero labels: %d (%.1f%%)\n", s.Zero, 100*float64(s.Zero)/float64(s.Count))
}

func newStatsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print entry count and angle distribution of a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(v)
			if err != nil {
				return err
			}
			s, err := computeStats(ds)
			if err != nil {
				return err
			}
			s.write(cmd.OutOrStdout(), ds.Name())
			return nil
		},
	}
}
