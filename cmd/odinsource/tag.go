// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odinsource/internal/catalog"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the tag vocabulary",
	Long: `Tag manages the catalogue's tag vocabulary. Tag names are normalized
(lowercased, trimmed, inner whitespace collapsed) and unique; a tag keeps
its id across renames, so renaming never breaks document associations.`,
}

// --- add subcommand ---

var tagAddCmd = &cobra.Command{
	Use:   "add [name]...",
	Short: "Add one or more tags to the vocabulary",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTagAdd,
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, name := range args {
		id, err := store.ResolveOrCreate(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("tag %q is id %d\n", catalog.NormalizeTag(name), id)
	}
	return nil
}

// --- rename subcommand ---

var tagRenameCmd = &cobra.Command{
	Use:   "rename [id] [new-name]",
	Short: "Rename a tag, keeping its id and associations",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagRename,
}

func runTagRename(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tag id %q", args[0])
	}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RenameTag(context.Background(), id, args[1]); err != nil {
		return err
	}
	fmt.Printf("tag %d renamed to %q\n", id, catalog.NormalizeTag(args[1]))
	return nil
}

// --- rm subcommand ---

var tagRmCmd = &cobra.Command{
	Use:   "rm [id|name]",
	Short: "Delete a tag from the vocabulary",
	Long: `Rm deletes a tag by id or by name. A tag still attached to documents is
refused unless --detach is given, which removes the tag from every document
first.`,
	Args: cobra.ExactArgs(1),
	RunE: runTagRm,
}

func runTagRm(cmd *cobra.Command, args []string) error {
	detach, _ := cmd.Flags().GetBool("detach")

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		var ok bool
		id, ok, err = store.LookupTag(ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no tag named %q", args[0])
		}
	}

	if detach {
		err = store.DeleteTagCascade(ctx, id)
	} else {
		err = store.DeleteTag(ctx, id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("tag %d deleted\n", id)
	return nil
}

// --- list subcommand ---

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tag vocabulary with document counts",
	RunE:  runTagList,
}

func runTagList(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	tags, err := store.ListTags(context.Background())
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Println("No tags in the catalogue.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-30s  %s\n", "ID", "Name", "Documents")
	for _, t := range tags {
		fmt.Fprintf(os.Stdout, "%-6d  %-30s  %d\n", t.ID, t.Name, t.DocumentCount)
	}
	return nil
}

func init() {
	tagRmCmd.Flags().Bool("detach", false, "detach the tag from all documents before deleting")

	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagListCmd)

	rootCmd.AddCommand(tagCmd)
}
