package domain

// ContentDescriptor locates the raw bytes of a repository file.
type ContentDescriptor struct {
	Repository  string
	Path        string
	DownloadURL string
	Size        int
}

// RawContent is retrieved file data with its provenance.
// Transient: the core never persists it directly.
type RawContent struct {
	Repository string
	Path       string
	Data       []byte
}
