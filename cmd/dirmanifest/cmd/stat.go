package cmd

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/dirmanifest/pkg/codec"
	"github.com/oneconcern/dirmanifest/pkg/manifest"
	"github.com/oneconcern/dirmanifest/pkg/shardmap"
	"github.com/spf13/cobra"
)

type statInfo struct {
	ID          string          `json:"id"`
	Entries     uint64          `json:"entries"`
	Files       uint64          `json:"files"`
	Directories uint64          `json:"directories"`
	Bytes       uint64          `json:"bytes"`
	Sharded     bool            `json:"sharded"`
	Shape       *shardmap.Shape `json:"shape,omitempty"`
	Raw         string          `json:"raw,omitempty"`
}

var statCmd = &cobra.Command{
	Use:   "stat <manifest id>",
	Short: "Describe a directory",
	Long: `Describe the directory of a manifest: its number of entries, files and sub-directories,
and the total size of its files. Sub-directories are not included.

These figures are read from the root of the manifest only.
With --shape, all the nodes of the manifest are fetched to describe how it is sharded.
With --raw, the root node is printed as stored, in CBOR diagnostic notation.`,
	Args: cobra.ExactArgs(1),
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

		rollup := m.Rollup()
		info := statInfo{
			ID:          id.String(),
			Entries:     m.Len(),
			Files:       rollup.Files,
			Directories: rollup.Directories,
			Bytes:       rollup.Bytes,
			Sharded:     m.Root().IsSharded(),
		}
		if dirFlags.stat.shape {
			shape, err := stores.manifests.Shape(ctx, m)
			if err != nil {
				wrapFatalln("describe shape", err)
				return
			}
			info.Shape = &shape
		}
		if dirFlags.stat.raw {
			if info.Raw, err = diagnose(m); err != nil {
				wrapFatalln("decode root node", err)
				return
			}
		}

		if dirFlags.output.json {
			if err = newJSONEncoder(cmd.OutOrStdout()).Encode(info); err != nil {
				wrapFatalln("encode", err)
			}
			return
		}

		table := uitable.New()
		table.AddRow("id:", info.ID)
		table.AddRow("entries:", info.Entries)
		table.AddRow("files:", info.Files)
		table.AddRow("directories:", info.Directories)
		table.AddRow("size:", fmt.Sprintf("%d (%s)", info.Bytes, units.HumanSize(float64(info.Bytes))))
		table.AddRow("sharded:", info.Sharded)
		if info.Shape != nil {
			table.AddRow("nodes:", info.Shape.Nodes)
			table.AddRow("sharded nodes:", info.Shape.ShardedNodes)
			table.AddRow("depth:", info.Shape.Depth)
			table.AddRow("max node weight:", info.Shape.MaxWeight)
		}
		if info.Raw != "" {
			table.AddRow("root node:", info.Raw)
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
	},
}

func diagnose(m manifest.Manifest) (string, error) {
	data, err := m.Encode()
	if err != nil {
		return "", err
	}
	return codec.Diagnose(data)
}

func init() {
	addShapeFlag(statCmd)
	addRawFlag(statCmd)
	addJSONFlag(statCmd)

	rootCmd.AddCommand(statCmd)
}
