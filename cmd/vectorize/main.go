// Command vectorize runs the REST facade or bulk-imports vectors into a
// Cloudflare Vectorize index.
//
//	vectorize serve
//	vectorize import --index docs --namespace text --file vectors.ndjson
//	vectorize import --index docs --qdrant-collection articles --create
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "vectorize",
		Short:        "Cloudflare Vectorize client, REST facade and bulk importer",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile, cmd.Flags().Changed("env-file"))
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading configuration")

	rootCmd.AddCommand(newServeCmd(), newImportCmd())
	return rootCmd
}

// loadEnv loads path without overriding variables that are already set. A
// missing default file is ignored; a missing explicit file is an error.
func loadEnv(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
