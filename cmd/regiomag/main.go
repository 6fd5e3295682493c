package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/regiomag/regiomag/internal/app"
	"github.com/regiomag/regiomag/internal/config"
	"github.com/regiomag/regiomag/internal/store/docstore"
	"github.com/regiomag/regiomag/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "regiomag",
	Short: "regiomag - regional trade magazine server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the magazine server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.New().Run()
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initialize the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		docs, err := docstore.Open(cfg.BadgerPath)
		if err != nil {
			return fmt.Errorf("failed to open document store at %s: %w", cfg.BadgerPath, err)
		}
		defer func() { _ = docs.Close() }()

		meta, created, err := docs.Setup(context.Background())
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("document store initialized (doc %s)\n", meta.DocID)
		} else {
			fmt.Printf("document store already initialized (doc %s, created %s)\n",
				meta.DocID, meta.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("regiomag %s (commit=%s, built=%s, go=%s)\n",
			version.Version, version.Commit, version.BuildDate, version.GoVersion)
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, setupCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
