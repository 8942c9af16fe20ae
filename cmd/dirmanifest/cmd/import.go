package cmd

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/oneconcern/dirmanifest/pkg/manifest"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// the default location of blobs is never imported
const storeDirName = ".dirmanifest"

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import a directory tree",
	Long: `Import a directory tree: the content of every file is stored, then the manifest
of every directory, from the leaves up to the root.

Prints the identifier of the manifest of the imported directory. Importing the same tree
twice yields the same identifier, and only stores what is missing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stores, err := newCLIStores(config)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		defer func() { _ = stores.close(cmd.ErrOrStderr()) }()

		id, stats, err := stores.manifests.Import(cmd.Context(), afero.NewOsFs(), args[0],
			manifest.ImportConcurrency(dirFlags.imp.concurrency),
			manifest.Exclude(append([]string{storeDirName}, dirFlags.imp.exclude...)...),
		)
		if err != nil {
			wrapFatalln("import "+args[0], err)
			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		fmt.Fprintf(cmd.ErrOrStderr(), "imported %d files (%s) in %d directories, skipped %d files\n",
			stats.Files, units.HumanSize(float64(stats.Bytes)), stats.Directories, stats.Skipped)
	},
}

func init() {
	addConcurrencyFlag(importCmd)
	addExcludeFlag(importCmd)

	rootCmd.AddCommand(importCmd)
}
