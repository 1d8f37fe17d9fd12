package pipeline

import "papercast/internal/services/gemini"

// Kind distinguishes where a document came from.
type Kind string

const (
	// KindDiscovery marks candidates found by the arXiv query.
	KindDiscovery Kind = "discovery"
	// KindUpload marks user-submitted documents.
	KindUpload Kind = "upload"
)

// Document describes one item moving through the pipeline, independent of
// its origin. Title, Authors, and Abstract are advisory hints: discovery
// candidates carry feed metadata, uploads carry whatever the submitter
// supplied, and either may be empty.
type Document struct {
	// ID is the native identifier: an arXiv ID or a submission ID.
	ID string
	// RecordID is the identifier the published record will carry.
	RecordID string
	// Kind selects origin-specific behavior, mainly how the body is fetched.
	Kind Kind

	Title    string
	Authors  []string
	Abstract string
	// Category is the arXiv primary category; empty for uploads.
	Category string
	// SourceURL is the human-facing page or file location.
	SourceURL string
	// PDFRef locates the document body: an HTTP(S) URL for discovery
	// candidates, a blob reference for uploads.
	PDFRef string
}

// Job carries one document's state across stages. Stages fill the fields
// in order: PDF, then Info, then Script, then PCM.
type Job struct {
	Document Document

	PDF    []byte
	Info   *gemini.PaperInfo
	Script string
	PCM    []byte
}
