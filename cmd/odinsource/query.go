// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odinsource/internal/catalog"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find documents by tag",
	Long: `Query returns the documents matching the requested tags. Mode all (the
default) matches documents carrying every requested tag; mode any matches
documents carrying at least one. An unknown tag name matches nothing but
never fails the query, so a typo in one tag does not hide the others'
results.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	rawTags, _ := cmd.Flags().GetStringSlice("tags")
	if len(rawTags) == 0 && len(args) > 0 {
		rawTags = args
	}
	if len(rawTags) == 0 {
		return fmt.Errorf("at least one tag required: use --tags or positional arguments")
	}

	modeStr, _ := cmd.Flags().GetString("mode")
	mode, err := catalog.ParseMode(modeStr)
	if err != nil {
		return err
	}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.FindByTags(context.Background(), rawTags, mode)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}
	for i := range docs {
		printDocument(&docs[i])
	}
	fmt.Printf("%d document(s)\n", len(docs))
	return nil
}

func init() {
	queryCmd.Flags().StringSlice("tags", nil, "tag names to query")
	queryCmd.Flags().String("mode", "all", "tag combination mode: all or any")
	queryCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(queryCmd)
}
