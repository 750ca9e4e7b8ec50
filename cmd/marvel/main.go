package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/marvel-client/cmd/marvel/commands"
	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "marvel",
	Short: "Marvel Comics API CLI",
	Long: `A command-line interface for browsing the Marvel Comics API.

Resources are fetched lazily: nested characters, comics, creators, events,
series and stories are only requested when a command needs them.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.marvel/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL")
	rootCmd.PersistentFlags().String("public-key", "", "public API key")
	rootCmd.PersistentFlags().String("private-key", "", "private API key")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "log every HTTP request and response")
	rootCmd.PersistentFlags().Bool("metrics", false, "print per-endpoint request metrics when done")
	rootCmd.PersistentFlags().Float64("rate-limit", 0, "maximum requests per second (0 disables)")
	rootCmd.PersistentFlags().Bool("insecure", false, "allow plain http endpoints")

	// Bind flags to viper
	bindFlag("config", "config")
	bindFlag("api", "api")
	bindFlag("public_key", "public-key")
	bindFlag("private_key", "private-key")
	bindFlag("output", "output")
	bindFlag("verbose", "verbose")
	bindFlag("debug", "debug")
	bindFlag("metrics", "metrics")
	bindFlag("rate_limit", "rate-limit")
	bindFlag("insecure", "insecure")

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewResolveCommand())
	rootCmd.AddCommand(commands.NewThumbnailCommand())
	rootCmd.AddCommand(commands.NewAttributionCommand())
	rootCmd.AddCommand(commands.NewComicPageCommand())
}

func bindFlag(key, flag string) {
	err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		panic(err)
	}
}

func initConfig() {
	// A missing .env file is not an error.
	_ = godotenv.Load(".env")

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.marvel/config.yml
		viper.AddConfigPath(filepath.Join(home, commands.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// MARVEL_PUBLIC_KEY, MARVEL_PRIVATE_KEY, MARVEL_COMIC_ID, ...
	viper.SetEnvPrefix("MARVEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
