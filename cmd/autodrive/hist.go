package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotHistogram writes a PNG histogram of the manifest angles to outPath.
func plotHistogram(ds *datasets.ManifestDataset, bins int, outPath string) error {
	if ds.Len() == 0 {
		return errors.Errorf("%s has no entries to plot", ds.Name())
	}
	if bins <= 0 {
		return errors.Errorf("bins must be positive, got %d", bins)
	}

	values := make(plotter.Values, ds.Len())
	for i := range values {
		e, err := ds.Entry(i)
		if err != nil {
			return err
		}
		values[i] = e.Angle
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Steering angles: %s (%d entries)", ds.Mode, ds.Len())
	p.X.Label.Text = "angle"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	p.Add(h)
	p.Add(plotter.NewGrid())

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output dir %s", dir)
		}
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, outPath)
}

func newHistCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hist",
		Short: "Plot a histogram of the manifest angles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDataset(v)
			if err != nil {
				return err
			}
			out := v.GetString("out")
			if err := plotHistogram(ds, v.GetInt("bins"), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().String("out", "angles.png", "output PNG path")
	cmd.Flags().Int("bins", 30, "number of histogram bins")
	_ = v.BindPFlags(cmd.Flags())
	return cmd
}
