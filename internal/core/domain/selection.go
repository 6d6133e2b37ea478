package domain

// SelectedFile is a single file or page picked by the user, identified by
// the provider-native ID.
type SelectedFile struct {
	// ID is the provider-native file or page identifier.
	ID string `json:"id"`
	// Name is the display name (file name or page title).
	Name string `json:"name"`
	// MimeType is the file MIME type (Google Drive, Dropbox).
	MimeType string `json:"mimeType,omitempty"`
	// ParentType distinguishes Notion object kinds (page, database).
	ParentType string `json:"parentType,omitempty"`
	// Path is the provider path, when the provider exposes one (Dropbox).
	Path string `json:"path,omitempty"`
	// WebURL is a browser-openable link to the item, when known.
	WebURL string `json:"webUrl,omitempty"`
}

// Selection is the outcome of one picker session: the chosen items plus the
// credential needed to read them later. Exactly one of RefreshToken or
// AccessToken is set, depending on the provider's token model.
type Selection struct {
	Provider ProviderType   `json:"provider"`
	Files    []SelectedFile `json:"files"`
	// RefreshToken is set for providers with expiring access tokens
	// (Google Drive, Dropbox).
	RefreshToken string `json:"refreshToken,omitempty"`
	// AccessToken is set for providers with non-expiring tokens (Notion).
	AccessToken string `json:"accessToken,omitempty"`
}

// IsEmpty returns true when no files were selected.
func (s *Selection) IsEmpty() bool {
	return s == nil || len(s.Files) == 0
}

// FileIDs returns the selected IDs in order.
func (s *Selection) FileIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		ids = append(ids, f.ID)
	}
	return ids
}

// Merge appends files to the selection, suppressing duplicates by ID.
// First appearance wins; order of first appearance is preserved.
func (s *Selection) Merge(files []SelectedFile) {
	s.Files = MergeFiles(s.Files, files)
}

// MergeFiles combines batches of picked files into one list deduplicated by
// provider-native ID, preserving order of first appearance.
func MergeFiles(batches ...[]SelectedFile) []SelectedFile {
	seen := make(map[string]struct{})
	var merged []SelectedFile
	for _, batch := range batches {
		for _, f := range batch {
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			merged = append(merged, f)
		}
	}
	return merged
}
