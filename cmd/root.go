package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/config"
)

var (
	cfg       *config.Config
	dataPaths []string
)

var rootCmd = &cobra.Command{
	Use:   "citymap",
	Short: "Named point store with radius search",
	Long:  "Loads cities from line-pair text files and answers radius queries under Euclidean, Manhattan or Chebyshev distance.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&dataPaths, "data", nil, "city file(s) to load, in addition to data.files")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
