package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive menu to add, delete and search cities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("shell started", zap.Int("cities", store.Len()))

		sh := shell.New(store, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
			AllowNegative: cfg.Shell.AllowNegative,
		})
		return sh.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
