package types

// LibraryConfig holds settings for the document library.
type LibraryConfig struct {
	// LibraryDir is the base directory for the library (contains files/
	// and the catalogue database). Default ~/.odinsource.
	LibraryDir string `json:"library_dir" yaml:"library_dir"`

	// Viewer is the external command used to open documents
	// (default xdg-open, or open on darwin).
	Viewer string `json:"viewer" yaml:"viewer"`

	// StrictTags rejects unknown tag names on insert and update instead
	// of creating them on first use.
	StrictTags bool `json:"strict_tags" yaml:"strict_tags"`

	// MaxResults caps query result counts. Zero means no cap.
	MaxResults int `json:"max_results" yaml:"max_results"`
}
