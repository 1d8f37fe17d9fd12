package store

import (
	"strings"
	"time"
)

// Paper is a published record: the structured summary of one processed
// document plus the location of its narrated audio. At most one row exists
// per ArxivID.
type Paper struct {
	ID            int64
	ArxivID       string
	Title         string
	Authors       []string
	Category      string
	Tags          []string
	Summary       string
	Innovations   string
	Method        string
	Results       string
	Conclusion    string
	Script        string
	ArxivURL      string
	PDFURL        string
	AudioURL      string
	AudioDuration int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Upload is a user-submitted document awaiting processing. The Extracted*
// fields are optional hints supplied at intake; the pipeline backfills any
// it is missing from the document itself.
type Upload struct {
	ID                string
	OriginalFilename  string
	FileURL           string
	UserID            string
	Status            Status
	ErrorMessage      string
	PaperID           *int64
	ExtractedTitle    string
	ExtractedAuthors  []string
	ExtractedAbstract string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecordID prefixes are used when synthesizing identifiers for documents
// that did not come from arXiv.
const uploadIdentifierPrefix = "upload_"

// UploadRecordID derives the record identifier for a processed upload: the
// literal prefix "upload_" followed by the first 8 characters of the
// submission ID.
func UploadRecordID(submissionID string) string {
	trimmed := strings.TrimSpace(submissionID)
	if len(trimmed) > 8 {
		trimmed = trimmed[:8]
	}
	return uploadIdentifierPrefix + trimmed
}

// HealthSummary describes aggregated submission counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}
