package main

import (
	"flag"
	"strings"

	"github.com/Noofbiz/autodrive/datasets"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

const envPrefix = "AUTODRIVE"

// newRootCmd builds the command tree with its own viper instance so tests can
// run commands side by side.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "autodrive",
		Short:         "Inspect steering-angle manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML config file (optional)")
	flags.String("data", ".", "data folder holding train.txt / val.txt")
	flags.String("mode", datasets.ModeTrain, "manifest to read: train or val")
	flags.Int("width", 0, "resize images to this width before checking (0 keeps original size)")
	flags.Int("height", 0, "resize images to this height before checking (0 keeps original size)")
	_ = v.BindPFlags(flags)

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	root.AddCommand(newStatsCmd(v), newCheckCmd(v), newHistCmd(v))
	return root
}

// loadConfig wires environment variables and the optional config file into v.
func loadConfig(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
		klog.V(1).Infof("loaded config from %s", path)
	}
	return nil
}

// openDataset builds the dataset described by the current configuration.
func openDataset(v *viper.Viper, opts ...datasets.Option) (*datasets.ManifestDataset, error) {
	var transform datasets.Transform
	width, height := v.GetInt("width"), v.GetInt("height")
	if width > 0 || height > 0 {
		if width <= 0 || height <= 0 {
			return nil, errors.Errorf("both --width and --height are needed to resize, got %dx%d", width, height)
		}
		transform = datasets.Resize(width, height)
	}
	return datasets.NewManifestDataset(v.GetString("data"), transform, v.GetString("mode"), opts...)
}
