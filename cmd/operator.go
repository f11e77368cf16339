package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bubble-sim/bubble-sim/sim/operator"
)

var fnoCmd = &cobra.Command{
	Use:   "fno",
	Short: "Inspect Fourier neural operator block configurations",
}

// --- bubble-sim fno validate ---

var fnoValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an FNO block config and print its per-layer forward plan",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := operator.LoadBlockConfig(args[0])
		if err != nil {
			logrus.Fatalf("Failed to load block config: %v", err)
		}
		blocks, err := operator.NewBlocks(*cfg)
		if err != nil {
			logrus.Fatalf("Invalid block config: %v", err)
		}
		if err := printPlan(os.Stdout, blocks); err != nil {
			logrus.Fatalf("Failed to print plan: %v", err)
		}
	},
}

// --- bubble-sim fno defaults ---

var (
	fnoInChannels  int
	fnoOutChannels int
	fnoModes       []int
)

var fnoDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print a default FNO block config as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := operator.DefaultBlockConfig(fnoInChannels, fnoOutChannels, fnoModes...)
		data, err := yaml.Marshal(cfg)
		if err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
		fmt.Print(string(data))
	},
}

// printPlan writes the derived layout and every layer's forward stages.
func printPlan(w io.Writer, b *operator.Blocks) error {
	cfg := b.Config
	if _, err := fmt.Fprintf(w, "layers: %d, dims: %d, channels: %d -> %d, norms per layer: %d\n",
		cfg.NLayers, b.NDim, cfg.InChannels, cfg.OutChannels, b.NumNorms); err != nil {
		return err
	}
	for i := 0; i < cfg.NLayers; i++ {
		stages, err := b.Plan(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "layer %d:\n", i); err != nil {
			return err
		}
		for j, s := range stages {
			if _, err := fmt.Fprintf(w, "  %2d. %s\n", j+1, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	fnoDefaultsCmd.Flags().IntVar(&fnoInChannels, "in", 3, "Input channels")
	fnoDefaultsCmd.Flags().IntVar(&fnoOutChannels, "out", 3, "Output channels")
	fnoDefaultsCmd.Flags().IntSliceVar(&fnoModes, "modes", []int{16, 16}, "Fourier modes per dimension")

	fnoCmd.AddCommand(fnoValidateCmd)
	fnoCmd.AddCommand(fnoDefaultsCmd)

	rootCmd.AddCommand(fnoCmd)
}
