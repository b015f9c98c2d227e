package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadFailure is one entry that fell back to the blank sample.
type loadFailure struct {
	Index   int
	Path    string
	Message string
}

// checkImages loads every item of the dataset and returns the ones that used
// the fallback sample. progress may be nil.
func checkImages(v *viper.Viper, progress io.Writer) ([]loadFailure, int, error) {
	var (
		mu       sync.Mutex
		messages []string
	)
	logf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, fmt.Sprintf(format, args...))
	}

	ds, err := openDataset(v, datasets.WithLogf(logf))
	if err != nil {
		return nil, 0, err
	}

	var pBar *progressbar.ProgressBar
	if progress != nil {
		pBar = progressbar.NewOptions(ds.Len(),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("Checking images"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}

	var failures []loadFailure
	for i := range ds.Len() {
		mu.Lock()
		before := len(messages)
		mu.Unlock()

		s, err := ds.Item(i)
		if err != nil {
			return nil, 0, err
		}
		if s.Fallback {
			f := loadFailure{Index: i, Path: s.Path}
			mu.Lock()
			if len(messages) > before {
				f.Message = messages[before]
			}
			mu.Unlock()
			failures = append(failures, f)
		}
		if pBar != nil {
			_ = pBar.Add(1)
		}
	}
	if pBar != nil {
		_ = pBar.Finish()
		fmt.Fprintln(progress)
	}
	return failures, ds.Len(), nil
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load every image of a manifest and report those that cannot be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var progress io.Writer
			if !v.GetBool("quiet") {
				progress = cmd.ErrOrStderr()
			}
			failures, total, err := checkImages(v, progress)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range failures {
				fmt.Fprintf(out, "%d\t%s\t%s\n", f.Index, f.Path, f.Message)
			}
			fmt.Fprintf(out, "%d of %d images failed to load\n", len(failures), total)
			if len(failures) > 0 && v.GetBool("strict") {
				return errors.Errorf("%d images failed to load", len(failures))
			}
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "exit with an error when any image fails to load")
	cmd.Flags().Bool("quiet", false, "do not show a progress bar")
	_ = v.BindPFlags(cmd.Flags())
	return cmd
}
