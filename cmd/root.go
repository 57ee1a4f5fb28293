// Package cmd provides the smartedit command-line interface.
//
// Configuration System:
//
//	Settings are read from several sources, highest priority first:
//	1. Command-line flags (--config, --log-level, --port, ...)
//	2. SMARTEDIT_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (SMARTEDIT_SERVER_PORT, ...)
//	4. Configuration file (.smartedit.yml)
//	5. Built-in defaults
//
//	A .env file in the working directory is loaded before anything else, so
//	SMARTEDIT_ variables can live there too.
package cmd

import (
	"fmt"
	"os"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smartedit",
	Short: "Edit HTML pages with plain-language requests",
	Long: `smartedit applies plain-language edit requests such as
"make the header bigger" or "change button text to \"Join now\"" to an HTML
document. It indexes the page's components, works out which one a request is
about and what should change, and rewrites only that element.

Quick Start:
  smartedit index page.html                          List editable components
  smartedit edit page.html "make the hero red"       Apply an edit
  smartedit resolve "make the header bigger" -f page.html
  smartedit serve page.html                          Preview and edit in the browser
  smartedit export page.html                         Convert to Markdown`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .smartedit.yml, can also use SMARTEDIT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
}

// initConfig points viper at the configuration file and environment.
// A missing file is not an error; defaults apply.
func initConfig() {
	config.LoadDotEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("SMARTEDIT_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".smartedit")
	}

	config.BindEnv(viper.GetViper())
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration and a logger writing to the command's
// stderr.
func loadConfig(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	lc := cfg.Log.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	return cfg, logging.NewLogger(lc), nil
}
