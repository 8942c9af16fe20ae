// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configuration keys, also the names of the persistent flags bound to them
const (
	backendKey     = "backend"
	pathKey        = "path"
	bucketKey      = "bucket"
	prefixKey      = "prefix"
	regionKey      = "region"
	endpointKey    = "endpoint"
	compressionKey = "compression"
	cacheSizeKey   = "cache-size"
	verifyKey      = "verify"
	logLevelKey    = "loglevel"
	metricsKey     = "metrics"
)

type flagsT struct {
	imp struct {
		concurrency int
		exclude     []string
	}
	ls struct {
		prefix    string
		recursive bool
	}
	stat struct {
		shape bool
		raw   bool
	}
	output struct {
		json bool
		file string
	}
}

var dirFlags = flagsT{}

func bindFlag(flags *pflag.FlagSet, key string) {
	if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
		wrapFatalln("bind flag "+key, err)
	}
}

func addStoreFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(backendKey, "", `The storage backend for blobs: "localfs", "badger" or "s3" (default "localfs")`)
	flags.String(pathKey, "", `The directory holding blobs, for the "localfs" and "badger" backends (default ".dirmanifest/objects")`)
	flags.String(bucketKey, "", `The bucket holding blobs, for the "s3" backend`)
	flags.String(prefixKey, "", `A prefix for all blobs in the bucket, for the "s3" backend`)
	flags.String(regionKey, "", `The region of the bucket, for the "s3" backend`)
	flags.String(endpointKey, "", `A custom endpoint for S3-compatible object stores, for the "s3" backend`)
	flags.String(compressionKey, "", `Compression of blobs at rest: "none", "lz4" or "zstd" (default "none")`)
	flags.String(cacheSizeKey, "", `Memory budget of the read cache, e.g. "128MB". "0" disables the cache (default "64MB")`)
	flags.Bool(verifyKey, false, "Verify the hash of every manifest and node read from storage")

	for _, key := range []string{
		backendKey, pathKey, bucketKey, prefixKey, regionKey, endpointKey, compressionKey, cacheSizeKey, verifyKey,
	} {
		bindFlag(flags, key)
	}
}

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(logLevelKey, "", `The logging level: "debug", "info", "warn", "error" or "none" (default "warn")`)
	bindFlag(cmd.PersistentFlags(), logLevelKey)
	return logLevelKey
}

func addMetricsFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().Bool(metricsKey, false, "Print storage metrics when done")
	bindFlag(cmd.PersistentFlags(), metricsKey)
	return metricsKey
}

func addConcurrencyFlag(cmd *cobra.Command) string {
	concurrency := "concurrency"
	cmd.Flags().IntVar(&dirFlags.imp.concurrency, concurrency, 16, "The number of files stored in parallel")
	return concurrency
}

func addExcludeFlag(cmd *cobra.Command) string {
	exclude := "exclude"
	cmd.Flags().StringSliceVar(&dirFlags.imp.exclude, exclude, nil, "Names of files and directories to ignore, at any depth")
	return exclude
}

func addPrefixFilterFlag(cmd *cobra.Command) string {
	prefix := "name-prefix"
	cmd.Flags().StringVar(&dirFlags.ls.prefix, prefix, "", "Only list the entries with a name starting with this prefix")
	return prefix
}

func addRecursiveFlag(cmd *cobra.Command) string {
	recursive := "recursive"
	cmd.Flags().BoolVarP(&dirFlags.ls.recursive, recursive, "r", false, "List sub-directories recursively")
	return recursive
}

func addShapeFlag(cmd *cobra.Command) string {
	shape := "shape"
	cmd.Flags().BoolVar(&dirFlags.stat.shape, shape, false, "Describe how the manifest is sharded. All its nodes are loaded")
	return shape
}

func addRawFlag(cmd *cobra.Command) string {
	raw := "raw"
	cmd.Flags().BoolVar(&dirFlags.stat.raw, raw, false, "Print the encoded root node of the manifest in CBOR diagnostic notation")
	return raw
}

func addJSONFlag(cmd *cobra.Command) string {
	j := "json"
	cmd.Flags().BoolVar(&dirFlags.output.json, j, false, "Output as JSON")
	return j
}

func addOutputFileFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVarP(&dirFlags.output.file, output, "o", "", "Write to this file instead of the standard output")
	return output
}
