package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const paperColumns = "id, arxiv_id, title, authors, category, tags, summary, innovations, method, results, conclusion, script, arxiv_url, pdf_url, audio_url, audio_duration, created_at, updated_at"

func scanPaper(scanner interface{ Scan(dest ...any) error }) (*Paper, error) {
	var (
		id            int64
		arxivID       string
		title         string
		authorsRaw    sql.NullString
		category      sql.NullString
		tagsRaw       sql.NullString
		summary       sql.NullString
		innovations   sql.NullString
		method        sql.NullString
		results       sql.NullString
		conclusion    sql.NullString
		script        sql.NullString
		arxivURL      sql.NullString
		pdfURL        sql.NullString
		audioURL      sql.NullString
		audioDuration sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&arxivID,
		&title,
		&authorsRaw,
		&category,
		&tagsRaw,
		&summary,
		&innovations,
		&method,
		&results,
		&conclusion,
		&script,
		&arxivURL,
		&pdfURL,
		&audioURL,
		&audioDuration,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	authors, err := decodeStringList(authorsRaw)
	if err != nil {
		return nil, fmt.Errorf("paper %d authors: %w", id, err)
	}
	tags, err := decodeStringList(tagsRaw)
	if err != nil {
		return nil, fmt.Errorf("paper %d tags: %w", id, err)
	}

	paper := &Paper{
		ID:            id,
		ArxivID:       arxivID,
		Title:         title,
		Authors:       authors,
		Category:      category.String,
		Tags:          tags,
		Summary:       summary.String,
		Innovations:   innovations.String,
		Method:        method.String,
		Results:       results.String,
		Conclusion:    conclusion.String,
		Script:        script.String,
		ArxivURL:      arxivURL.String,
		PDFURL:        pdfURL.String,
		AudioURL:      audioURL.String,
		AudioDuration: int(audioDuration.Int64),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		paper.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		paper.UpdatedAt = updated
	}
	return paper, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		// SQLITE_CONSTRAINT and SQLITE_CONSTRAINT_UNIQUE.
		if code := coder.Code(); code == 19 || code == 2067 {
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// InsertPaper persists a new record and returns its row ID. A record whose
// ArxivID already exists yields ErrDuplicatePaper.
func (s *Store) InsertPaper(ctx context.Context, paper *Paper) (int64, error) {
	if paper == nil {
		return 0, errors.New("insert paper: nil paper")
	}
	if strings.TrimSpace(paper.ArxivID) == "" {
		return 0, errors.New("insert paper: arxiv id is required")
	}
	if strings.TrimSpace(paper.Title) == "" {
		return 0, errors.New("insert paper: title is required")
	}

	authors, err := encodeStringList(paper.Authors)
	if err != nil {
		return 0, err
	}
	tags, err := encodeStringList(paper.Tags)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO papers (arxiv_id, title, authors, category, tags, summary, innovations, method, results, conclusion, script, arxiv_url, pdf_url, audio_url, audio_duration, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		paper.ArxivID,
		paper.Title,
		authors,
		nullableString(paper.Category),
		tags,
		nullableString(paper.Summary),
		nullableString(paper.Innovations),
		nullableString(paper.Method),
		nullableString(paper.Results),
		nullableString(paper.Conclusion),
		nullableString(paper.Script),
		nullableString(paper.ArxivURL),
		nullableString(paper.PDFURL),
		nullableString(paper.AudioURL),
		paper.AudioDuration,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrDuplicatePaper, paper.ArxivID)
		}
		return 0, fmt.Errorf("insert paper: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert paper id: %w", err)
	}
	paper.ID = id
	paper.CreatedAt = now
	paper.UpdatedAt = now
	return id, nil
}

// PaperByArxivID fetches a record by its identifier, returning ErrNotFound
// when absent.
func (s *Store) PaperByArxivID(ctx context.Context, arxivID string) (*Paper, error) {
	var paper *Paper
	err := s.queryRowWithRetry(
		ctx,
		"SELECT "+paperColumns+" FROM papers WHERE arxiv_id = ?",
		[]any{arxivID},
		func(row *sql.Row) error {
			var scanErr error
			paper, scanErr = scanPaper(row)
			return scanErr
		},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: paper %s", ErrNotFound, arxivID)
		}
		return nil, fmt.Errorf("query paper %s: %w", arxivID, err)
	}
	return paper, nil
}

// ListPapers returns the most recently created records, newest first.
func (s *Store) ListPapers(ctx context.Context, limit int) ([]*Paper, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT "+paperColumns+" FROM papers ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	var papers []*Paper
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, rows.Err()
}

// RecentPaperTitles returns the titles of the most recent records, used for
// advisory near-duplicate checks.
func (s *Store) RecentPaperTitles(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT title FROM papers ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list paper titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan paper title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// CountPapers reports the number of published records.
func (s *Store) CountPapers(ctx context.Context) (int, error) {
	var count int
	err := s.queryRowWithRetry(ctx, "SELECT COUNT(1) FROM papers", nil, func(row *sql.Row) error {
		return row.Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count papers: %w", err)
	}
	return count, nil
}
