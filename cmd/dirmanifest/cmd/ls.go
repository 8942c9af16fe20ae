package cmd

import (
	"context"

	"github.com/oneconcern/dirmanifest/pkg/manifest"
	"github.com/oneconcern/dirmanifest/pkg/model"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:     "ls <manifest id>",
	Short:   "List the entries of a directory",
	Aliases: []string{"list"},
	Long: `List the entries of the directory described by a manifest, ordered by name.

With --name-prefix, only the nodes of large directories which may hold matching names are fetched.
With --recursive, sub-directories are listed depth-first. The name prefix only
applies to the entries of the listed directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		stores, err := newCLIStores(config)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		defer func() { _ = stores.close(cmd.ErrOrStderr()) }()

		_, m, ok := getManifest(ctx, stores, args[0])
		if !ok {
			return
		}

		entries, err := collectEntries(ctx, stores.manifests, m, dirFlags.ls.prefix, dirFlags.ls.recursive)
		if err != nil {
			wrapFatalln("list entries", err)
			return
		}

		if err = printEntries(cmd.OutOrStdout(), entries); err != nil {
			wrapFatalln("print entries", err)
		}
	},
}

// collectEntries lists the entries of a manifest with a name starting with prefix.
// Only the matching sub-directories are walked when recursive.
func collectEntries(ctx context.Context, s *manifest.Store, m manifest.Manifest, prefix string, recursive bool) ([]entryInfo, error) {
	var entries []entryInfo
	it := m.PrefixEntries(ctx, s, prefix)
	for it.Next() {
		e := it.Entry()
		name := e.Name.String()
		entries = append(entries, newEntryInfo(name, e.Entry))

		dir, isDir := e.Entry.Directory()
		if !recursive || !isDir {
			continue
		}
		sub, err := s.Get(ctx, dir.ID)
		if err != nil {
			return nil, err
		}
		err = s.Walk(ctx, sub, func(path string, entry model.Entry) error {
			entries = append(entries, newEntryInfo(name+"/"+path, entry))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return entries, it.Err()
}

func init() {
	addPrefixFilterFlag(lsCmd)
	addRecursiveFlag(lsCmd)
	addJSONFlag(lsCmd)

	rootCmd.AddCommand(lsCmd)
}
