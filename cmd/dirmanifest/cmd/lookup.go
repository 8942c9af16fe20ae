package cmd

import (
	"syscall"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <manifest id> <path>",
	Short: "Look up a path in a directory tree",
	Long: `Look up a slash-separated path in the directory tree described by a manifest.

Only the manifests and nodes on the way to the path are fetched.
Prints the entry if the path exists, exits with ENOENT status otherwise.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		stores, err := newCLIStores(config)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		defer func() { _ = stores.close(cmd.ErrOrStderr()) }()

		id, m, ok := getManifest(ctx, stores, args[0])
		if !ok {
			return
		}

		entry, found, err := stores.manifests.LookupPath(ctx, m, args[1])
		if err != nil {
			wrapFatalln("lookup "+args[1], err)
			return
		}
		if !found {
			wrapFatalWithCodef(int(syscall.ENOENT), "didn't find %q in %v", args[1], id)
			return
		}

		if err = printEntries(cmd.OutOrStdout(), []entryInfo{newEntryInfo(args[1], entry)}); err != nil {
			wrapFatalln("print entry", err)
		}
	},
}

func init() {
	addJSONFlag(lookupCmd)

	rootCmd.AddCommand(lookupCmd)
}
