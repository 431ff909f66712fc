package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFmt    string
	includeTerms []string
	excludeTerms []string
	unmatched    string
	verbose      bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft — multi-host log correlation",
	Long: `Weft collects textual log output from one or more hosts, parses it
against a configurable scheme, and weaves the per-host chronologies into
a single, filterable, chronologically ordered timeline.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.weft.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringSliceVarP(&includeTerms, "include", "i", nil, "keep only records whose message contains every term")
	rootCmd.PersistentFlags().StringSliceVarP(&excludeTerms, "exclude", "e", nil, "drop records whose message contains any term")
	rootCmd.PersistentFlags().StringVar(&unmatched, "unmatched", "warn", "policy for unparsed candidates: drop, warn, append")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".weft")
		viper.SetConfigType("yaml")
	}

	// ISO-8601 journal-style lines by default; a config file overrides
	// any subset of the scheme.
	viper.SetDefault("scheme.date_time", `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	viper.SetDefault("scheme.host", `\S+`)
	viper.SetDefault("scheme.service", `[\w.-]+`)
	viper.SetDefault("scheme.message", `.*`)
	viper.SetDefault("scheme.whole_line", "{d} {h} {s}: {m}")
	viper.SetDefault("scheme.delimiter", `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`)
	viper.SetDefault("scheme.timestamp_format", "%Y-%m-%d %H:%M:%S")

	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// newLogger builds the stderr console logger shared by all subcommands.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
