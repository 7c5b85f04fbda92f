package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/loader"
	"github.com/sells-group/citymap/internal/report"
)

// sourceFiles returns the configured data files followed by --data paths.
func sourceFiles() []string {
	files := append([]string{}, cfg.Data.Files...)
	return append(files, dataPaths...)
}

// openStore builds a store from every configured source file.
func openStore(ctx context.Context) (*citystore.Store, error) {
	store := citystore.New()
	files := sourceFiles()
	if len(files) == 0 {
		return store, nil
	}
	if _, err := loader.Load(ctx, store, files, cfg.Loader.Concurrency); err != nil {
		return nil, eris.Wrap(err, "load cities")
	}
	return store, nil
}

// outputFormat resolves --format, falling back to report.format.
func outputFormat(cmd *cobra.Command) (report.Format, error) {
	name := cfg.Report.Format
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		name = f.Value.String()
	}
	return report.ParseFormat(name)
}

// openOutput returns the writer for --out, or the command's stdout.
func openOutput(cmd *cobra.Command, path string, format report.Format) (io.Writer, func() error, error) {
	if path == "" {
		if format.Binary() {
			return nil, nil, eris.Errorf("%s output requires --out", format)
		}
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
