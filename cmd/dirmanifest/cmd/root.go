// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/oneconcern/dirmanifest/pkg/dlogger"
	"github.com/oneconcern/dirmanifest/pkg/storage/localfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dirmanifest",
	Short: "dirmanifest stores directory trees as content-addressed manifests",
	Long: `dirmanifest stores directory trees as content-addressed manifests.

Every directory is described by a manifest, which maps the names of its children
to files (referencing their content) or sub-directories (referencing their own manifest).
Manifests, file contents and the nodes of large directories are immutable blobs,
identified by the hash of their content.

Blobs are kept in a local directory, a badger database or an S3 bucket.
`,
	SilenceUsage: true,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addStoreFlags(rootCmd)
	addLogLevelFlag(rootCmd)
	addMetricsFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault(backendKey, backendLocalFS)
	viper.SetDefault(pathKey, localfs.DefaultPath)
	viper.SetDefault(compressionKey, "none")
	viper.SetDefault(cacheSizeKey, "64MB")
	viper.SetDefault(logLevelKey, dlogger.LogLevelWarn)

	if os.Getenv("DIRMANIFEST_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("DIRMANIFEST_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.dirmanifest")
		viper.AddConfigPath("/etc/dirmanifest")
		viper.SetConfigName("dirmanifest")
	}

	viper.SetEnvPrefix("dirmanifest")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
