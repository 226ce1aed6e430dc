package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simon/tctrl/internal/config"
	"github.com/simon/tctrl/internal/logger"
)

// Commands carrying this annotation run without reading config.yaml.
const annotationNoSettings = "no-settings"

var (
	configPath string
	debug      bool
	settings   = &config.Settings{}
)

func SetVersionInfo(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
}

var rootCmd = &cobra.Command{
	Use:           "tctrl",
	Short:         "Open projects as tmux sessions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoSettings] == "true" {
			return nil
		}
		s, err := config.Load()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		settings = s
		initLogging(s)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"A Lua configuration file loaded after all others")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tctrl: %v\n", err)
		os.Exit(1)
	}
}
