package cmd

import (
	"io"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/dirmanifest/pkg/model"
)

// entryInfo describes an entry of a manifest
type entryInfo struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size uint64 `json:"size,omitempty"`
	ID   string `json:"id"`
}

const directoryType = "directory"

func newEntryInfo(path string, e model.Entry) entryInfo {
	if f, ok := e.File(); ok {
		return entryInfo{Path: path, Type: f.Type.String(), Size: f.Size, ID: f.ContentID.String()}
	}
	d, _ := e.Directory()
	return entryInfo{Path: path, Type: directoryType, ID: d.ID.String()}
}

func newJSONEncoder(w io.Writer) *jsoniter.Encoder {
	enc := jsoniter.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

func printEntries(w io.Writer, entries []entryInfo) error {
	if dirFlags.output.json {
		if entries == nil {
			entries = []entryInfo{}
		}
		return newJSONEncoder(w).Encode(entries)
	}

	table := uitable.New()
	table.MaxColWidth = 120
	table.AddRow("TYPE", "SIZE", "ID", "NAME")
	for _, e := range entries {
		if e.Type == directoryType {
			table.AddRow(e.Type, "-", e.ID[:12], color.BlueString(e.Path+"/"))
			continue
		}
		table.AddRow(e.Type, units.HumanSize(float64(e.Size)), e.ID[:12], e.Path)
	}
	_, err := io.WriteString(w, table.String()+"\n")
	return err
}
