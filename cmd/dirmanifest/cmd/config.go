package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	Backend     string `json:"backend" yaml:"backend" mapstructure:"backend"`                                 // Storage backend for blobs
	Path        string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`                      // Local directory for blobs
	Bucket      string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`                // S3 bucket for blobs
	Prefix      string `json:"prefix,omitempty" yaml:"prefix,omitempty" mapstructure:"prefix"`                // Prefix of blobs in the S3 bucket
	Region      string `json:"region,omitempty" yaml:"region,omitempty" mapstructure:"region"`                // Region of the S3 bucket
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`          // S3-compatible endpoint
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty" mapstructure:"compression"` // Compression of blobs at rest
	CacheSize   string `json:"cache-size,omitempty" yaml:"cache-size,omitempty" mapstructure:"cache-size"`    // Memory budget of the read cache
	Verify      bool   `json:"verify,omitempty" yaml:"verify,omitempty" mapstructure:"verify"`                // Verify hashes on read
	LogLevel    string `json:"loglevel,omitempty" yaml:"loglevel,omitempty" mapstructure:"loglevel"`          // Logging level
	Metrics     bool   `json:"metrics,omitempty" yaml:"metrics,omitempty" mapstructure:"metrics"`             // Print storage metrics
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage the dirmanifest CLI config.

The config holds the settings of the storage backend, which seldom change across runs.
It is read from dirmanifest.yaml, in the current directory, $HOME/.dirmanifest or /etc/dirmanifest,
or from the file designated by $DIRMANIFEST_CONFIG.

Every setting may be overridden by a flag, or by an environment variable such as DIRMANIFEST_BACKEND.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
