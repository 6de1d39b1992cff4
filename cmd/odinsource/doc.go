// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/odinsource/internal/catalog"
	"github.com/pdiddy/odinsource/internal/importer"
	"github.com/pdiddy/odinsource/internal/viewer"
	"github.com/pdiddy/odinsource/pkg/types"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage catalogued documents",
	Long: `Doc manages the documents in the catalogue: add single documents, import
batches from a TOML file, edit fields and tag sets, remove documents, or
open a stored copy in the external viewer.

Adding a document copies the source file into the library and records a
content fingerprint; a file whose bytes are already catalogued is rejected
with the existing document's id, regardless of its file name.`,
}

// --- add subcommand ---

var docAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single document to the catalogue",
	RunE:  runDocAdd,
}

func runDocAdd(cmd *cobra.Command, args []string) error {
	draft := draftFromFlags(cmd)

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Insert(context.Background(), draft)
	if err != nil {
		var dup *catalog.DuplicateDocumentError
		if errors.As(err, &dup) {
			return fmt.Errorf("not added: %w", err)
		}
		return err
	}
	fmt.Printf("document %q added as id %d\n", draft.Title, id)
	return nil
}

func draftFromFlags(cmd *cobra.Command) types.DocumentDraft {
	title, _ := cmd.Flags().GetString("title")
	path, _ := cmd.Flags().GetString("path")
	tags, _ := cmd.Flags().GetString("tags")
	author, _ := cmd.Flags().GetString("author")
	year, _ := cmd.Flags().GetString("year")
	publication, _ := cmd.Flags().GetString("publication")
	volume, _ := cmd.Flags().GetString("volume")
	doi, _ := cmd.Flags().GetString("doi")

	return types.DocumentDraft{
		Title:       title,
		Path:        path,
		Tags:        splitTags(tags),
		Author:      author,
		Year:        year,
		Publication: publication,
		Volume:      volume,
		DOI:         doi,
	}
}

// splitTags turns a comma-separated flag value into raw tag names.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if strings.TrimSpace(t) != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// --- import subcommand ---

var docImportCmd = &cobra.Command{
	Use:   "import [file.toml]",
	Short: "Import a batch of documents from a TOML file",
	Long: `Import reads a [[documents]] array from a TOML file and adds each entry
independently. A file that is not valid TOML fails as a whole; a single
entry that fails (duplicate content, missing file) is reported without
aborting the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocImport,
}

func runDocImport(cmd *cobra.Command, args []string) error {
	drafts, err := importer.ReadFile(args[0])
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("%s: no documents to import", args[0])
	}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	_, summary := store.BatchInsert(context.Background(), drafts, os.Stdout)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed to import", summary.Failed, summary.Total())
	}
	return nil
}

// --- edit subcommand ---

var docEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit fields or the tag set of a document",
	Long: `Edit applies only the flags you pass; everything else is left as is.
--tags replaces the whole tag set. The patch is atomic: if any part fails,
no field changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocEdit,
}

func runDocEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	patch := patchFromFlags(cmd)
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change: pass at least one field flag")
	}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdateDocument(context.Background(), id, patch); err != nil {
		return err
	}
	fmt.Printf("document %d updated\n", id)
	return nil
}

func patchFromFlags(cmd *cobra.Command) types.DocumentPatch {
	var patch types.DocumentPatch

	strFlag := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}

	patch.Title = strFlag("title")
	patch.Author = strFlag("author")
	patch.Year = strFlag("year")
	patch.Publication = strFlag("publication")
	patch.Volume = strFlag("volume")
	patch.DOI = strFlag("doi")

	if cmd.Flags().Changed("tags") {
		raw, _ := cmd.Flags().GetString("tags")
		tags := splitTags(raw)
		patch.Tags = &tags
	}
	return patch
}

// --- rm subcommand ---

var docRmCmd = &cobra.Command{
	Use:   "rm [id|title]",
	Short: "Remove a document and its stored copy",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocRm,
}

func runDocRm(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	doc, err := resolveDocArg(ctx, store, args[0])
	if err != nil {
		return err
	}

	if err := store.Remove(ctx, doc.ID, os.Stderr); err != nil {
		return err
	}
	fmt.Printf("document %d (%q) removed\n", doc.ID, doc.Title)
	return nil
}

// --- list subcommand ---

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalogued documents",
	RunE:  runDocList,
}

func runDocList(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.ListDocuments(context.Background())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents in the catalogue.")
		return nil
	}
	for i := range docs {
		printDocument(&docs[i])
	}
	fmt.Printf("%d document(s)\n", len(docs))
	return nil
}

// --- open subcommand ---

var docOpenCmd = &cobra.Command{
	Use:   "open [id|title]",
	Short: "Open a stored document in the external viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocOpen,
}

func runDocOpen(cmd *cobra.Command, args []string) error {
	cfg := libraryConfig(cmd)
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	doc, err := resolveDocArg(ctx, store, args[0])
	if err != nil {
		return err
	}

	v := viewer.New(cfg.Viewer)
	if err := v.Open(store.StoredPath(doc)); err != nil {
		// Viewer trouble is reported, not fatal; the catalogue is fine.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil
	}
	fmt.Printf("opened document %d with %s\n", doc.ID, v.Command())
	return nil
}

// --- reimport subcommand ---

var docReimportCmd = &cobra.Command{
	Use:   "reimport [id] [path]",
	Short: "Replace a document's content from a new source file",
	Long: `Reimport recomputes the content fingerprint from the file at path and
replaces the stored library copy. This is the only operation that changes a
fingerprint; it applies the usual duplicate check against every other
document.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocReimport,
}

func runDocReimport(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	store, err := catalog.Open(libraryConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reimport(context.Background(), id, args[1], os.Stderr); err != nil {
		return err
	}
	fmt.Printf("document %d reimported from %s\n", id, args[1])
	return nil
}

// --- shared helpers ---

// resolveDocArg finds a document by numeric id, falling back to title.
func resolveDocArg(ctx context.Context, store *catalog.Store, arg string) (*types.Document, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return store.Get(ctx, id)
	}
	return store.GetByTitle(ctx, arg)
}

func printDocument(doc *types.Document) {
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-12s %d\n", "id:", doc.ID)
	fmt.Printf("%-12s %s\n", "title:", doc.Title)
	fmt.Printf("%-12s %s\n", "author:", doc.Author)
	fmt.Printf("%-12s %s\n", "publication:", doc.Publication)
	fmt.Printf("%-12s %s\n", "volume:", doc.Volume)
	fmt.Printf("%-12s %s\n", "year:", doc.Year)
	fmt.Printf("%-12s %s\n", "doi:", doc.DOI)
	fmt.Printf("%-12s %s\n", "tags:", strings.Join(doc.Tags, ", "))
	fmt.Printf("%-12s %s\n", "stored as:", doc.StoredName)
	fmt.Println(strings.Repeat("-", 80))
}

func init() {
	for _, c := range []*cobra.Command{docAddCmd, docEditCmd} {
		c.Flags().String("title", "", "document title")
		c.Flags().String("tags", "", "comma-separated tag names")
		c.Flags().String("author", "", "author metadata")
		c.Flags().String("year", "", "year metadata")
		c.Flags().String("publication", "", "publication metadata")
		c.Flags().String("volume", "", "volume metadata")
		c.Flags().String("doi", "", "DOI metadata")
	}
	docAddCmd.Flags().String("path", "", "path to the PDF to catalogue")
	docAddCmd.MarkFlagRequired("path")
	docAddCmd.MarkFlagRequired("title")

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docImportCmd)
	docCmd.AddCommand(docEditCmd)
	docCmd.AddCommand(docRmCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docOpenCmd)
	docCmd.AddCommand(docReimportCmd)

	rootCmd.AddCommand(docCmd)
}
