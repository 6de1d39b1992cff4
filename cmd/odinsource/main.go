// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the odinsource CLI, a personal
// catalogue of reference documents retrieved by tag instead of file name.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/odinsource/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the odinsource CLI.
var rootCmd = &cobra.Command{
	Use:   "odinsource",
	Short: "Catalogue reference documents by tag",
	Long: `odinsource keeps a local library of reference documents (PDFs), each
carrying one or more tags, so documents relevant to a topic are retrieved by
tag query instead of by remembering file names.

Documents and tags are managed through the doc and tag subcommands; query
finds documents by tag, and open hands a stored document to an external
viewer.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./odinsource.yaml or ~/.config/odinsource/config.yaml)")
	rootCmd.PersistentFlags().String("library-dir", "", "library directory (default: ~/.odinsource)")
	rootCmd.PersistentFlags().Bool("strict-tags", false, "reject unknown tags instead of creating them")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("odinsource")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "odinsource"))
		}
	}

	viper.SetEnvPrefix("ODINSOURCE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// libraryConfig assembles the library configuration from flags, config
// file, and environment, in that order of precedence.
func libraryConfig(cmd *cobra.Command) types.LibraryConfig {
	libraryDir, _ := cmd.Flags().GetString("library-dir")
	if libraryDir == "" {
		libraryDir = viper.GetString("library_dir")
	}
	if libraryDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			libraryDir = filepath.Join(home, ".odinsource")
		} else {
			libraryDir = ".odinsource"
		}
	}

	strictTags, _ := cmd.Flags().GetBool("strict-tags")
	if !strictTags {
		strictTags = viper.GetBool("strict_tags")
	}

	return types.LibraryConfig{
		LibraryDir: libraryDir,
		Viewer:     viper.GetString("viewer"),
		StrictTags: strictTags,
		MaxResults: viper.GetInt("max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
