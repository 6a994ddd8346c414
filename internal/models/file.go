package models

// FileSample is a bounded excerpt of one repository file used by the pattern scanner
type FileSample struct {
	Path      string `json:"path"`
	Content   string `json:"-"`
	Truncated bool   `json:"truncated"`
	Language  string `json:"language,omitempty"`
	Digest    uint64 `json:"digest"`
}

// DirEntry is one item of a repository directory listing
type DirEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int    `json:"size"`
}

// IsDir reports whether the entry is a directory
func (e DirEntry) IsDir() bool {
	return e.Type == "dir"
}
