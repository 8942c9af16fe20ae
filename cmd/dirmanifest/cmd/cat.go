package cmd

import (
	"syscall"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <manifest id> <path>",
	Short: "Print the content of a file",
	Long: `Print the content of a file of the directory tree described by a manifest.
For a symbolic link, prints its target.`,
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
		file, isFile := entry.File()
		if !found || !isFile {
			wrapFatalWithCodef(int(syscall.ENOENT), "didn't find file %q in %v", args[1], id)
			return
		}

		data, err := stores.manifests.GetContent(ctx, file.ContentID)
		if err != nil {
			wrapFatalln("get content of "+args[1], err)
			return
		}
		if _, err = cmd.OutOrStdout().Write(data); err != nil {
			wrapFatalln("write content", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
