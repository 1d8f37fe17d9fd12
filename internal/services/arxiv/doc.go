// Package arxiv queries the arXiv Atom API for candidate papers. Results
// come back newest-update-first so a scheduled run sees fresh submissions
// before backfill.
package arxiv
