// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odinsource/internal/catalog"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the catalogue to YAML or JSON",
	Long: `Export writes the catalogue (or the subset matching --tags) to a file,
replacing it atomically. The format follows --format, defaulting to yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	rawTags, _ := cmd.Flags().GetStringSlice("tags")
	modeStr, _ := cmd.Flags().GetString("mode")

	mode, err := catalog.ParseMode(modeStr)
	if err != nil {
		return err
	}
	filter := catalog.ExportFilter{Tags: rawTags, Mode: mode}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(ctx, args[0], filter); err != nil {
			return err
		}
	case "json":
		if err := store.ExportJSON(ctx, args[0], filter); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", args[0])
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().StringSlice("tags", nil, "export only documents matching these tags")
	exportCmd.Flags().String("mode", "all", "tag combination mode for --tags: all or any")

	rootCmd.AddCommand(exportCmd)
}
