package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/spf13/cobra"
)

var configGen = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config",
	Long: `Generate a config from the current settings, i.e. the config file in use
amended by environment variables and flags.

Use --output to write it to a file, e.g. $HOME/.dirmanifest/dirmanifest.yaml`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		o, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}

		if dirFlags.output.file == "" {
			_, _ = cmd.OutOrStdout().Write(o)
			return
		}
		if err = os.MkdirAll(filepath.Dir(dirFlags.output.file), 0o700); err != nil {
			wrapFatalln("create config directory", err)
			return
		}
		if err = os.WriteFile(dirFlags.output.file, o, 0o600); err != nil {
			wrapFatalln("write config file", err)
			return
		}
	},
}

func init() {
	addOutputFileFlag(configGen)

	configCmd.AddCommand(configGen)
}
