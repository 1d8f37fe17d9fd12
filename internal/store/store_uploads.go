package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const uploadColumns = "id, original_filename, file_url, user_id, status, error_message, paper_id, extracted_title, extracted_authors, extracted_abstract, created_at, updated_at"

func scanUpload(scanner interface{ Scan(dest ...any) error }) (*Upload, error) {
	var (
		id               string
		originalFilename string
		fileURL          string
		userID           sql.NullString
		statusStr        string
		errorMessage     sql.NullString
		paperID          sql.NullInt64
		title            sql.NullString
		authorsRaw       sql.NullString
		abstract         sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&originalFilename,
		&fileURL,
		&userID,
		&statusStr,
		&errorMessage,
		&paperID,
		&title,
		&authorsRaw,
		&abstract,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	authors, err := decodeStringList(authorsRaw)
	if err != nil {
		return nil, fmt.Errorf("upload %s authors: %w", id, err)
	}

	upload := &Upload{
		ID:                id,
		OriginalFilename:  originalFilename,
		FileURL:           fileURL,
		UserID:            userID.String,
		Status:            Status(statusStr),
		ErrorMessage:      errorMessage.String,
		ExtractedTitle:    title.String,
		ExtractedAuthors:  authors,
		ExtractedAbstract: abstract.String,
	}
	if paperID.Valid {
		value := paperID.Int64
		upload.PaperID = &value
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		upload.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		upload.UpdatedAt = updated
	}
	return upload, nil
}

// CreateUpload inserts a new submission in pending status.
func (s *Store) CreateUpload(ctx context.Context, upload *Upload) error {
	if upload == nil {
		return errors.New("create upload: nil upload")
	}
	if strings.TrimSpace(upload.ID) == "" {
		return errors.New("create upload: id is required")
	}
	if strings.TrimSpace(upload.FileURL) == "" {
		return errors.New("create upload: file url is required")
	}
	if upload.Status == "" {
		upload.Status = StatusPending
	}
	if upload.Status != StatusPending {
		return fmt.Errorf("create upload: submissions start in %s, got %s", StatusPending, upload.Status)
	}

	authors, err := encodeStringList(upload.ExtractedAuthors)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO pending_uploads (id, original_filename, file_url, user_id, status, error_message, paper_id, extracted_title, extracted_authors, extracted_abstract, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, NULL, NULL, ?, ?, ?, ?, ?)`,
		upload.ID,
		upload.OriginalFilename,
		upload.FileURL,
		nullableString(upload.UserID),
		string(StatusPending),
		nullableString(upload.ExtractedTitle),
		authors,
		nullableString(upload.ExtractedAbstract),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create upload: submission %s already exists", upload.ID)
		}
		return fmt.Errorf("create upload: %w", err)
	}
	upload.Status = StatusPending
	upload.CreatedAt = now
	upload.UpdatedAt = now
	return nil
}

// GetUpload fetches a submission by ID, returning ErrNotFound when absent.
func (s *Store) GetUpload(ctx context.Context, id string) (*Upload, error) {
	var upload *Upload
	err := s.queryRowWithRetry(
		ctx,
		"SELECT "+uploadColumns+" FROM pending_uploads WHERE id = ?",
		[]any{id},
		func(row *sql.Row) error {
			var scanErr error
			upload, scanErr = scanUpload(row)
			return scanErr
		},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: upload %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("query upload %s: %w", id, err)
	}
	return upload, nil
}

// ListPendingUploads returns up to limit pending submissions, oldest first,
// so a bounded batch drains the backlog in arrival order.
func (s *Store) ListPendingUploads(ctx context.Context, limit int) ([]*Upload, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.listUploads(ctx, []Status{StatusPending}, "ASC", limit)
}

// ListUploads returns submissions filtered by the given statuses, newest
// first. An empty status list returns every submission.
func (s *Store) ListUploads(ctx context.Context, statuses []Status, limit int) ([]*Upload, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.listUploads(ctx, statuses, "DESC", limit)
}

func (s *Store) listUploads(ctx context.Context, statuses []Status, order string, limit int) ([]*Upload, error) {
	ctx = ensureContext(ctx)

	query := "SELECT " + uploadColumns + " FROM pending_uploads"
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += " WHERE status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, string(status))
		}
	}
	query += " ORDER BY created_at " + order + ", id " + order + " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, upload)
	}
	return uploads, rows.Err()
}

// UploadHealth aggregates submission counts per lifecycle state.
func (s *Store) UploadHealth(ctx context.Context) (HealthSummary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM pending_uploads GROUP BY status")
	if err != nil {
		return HealthSummary{}, fmt.Errorf("upload health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var statusStr string
		var count int
		if err := rows.Scan(&statusStr, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("scan upload health: %w", err)
		}
		summary.Total += count
		switch Status(statusStr) {
		case StatusPending:
			summary.Pending = count
		case StatusProcessing:
			summary.Processing = count
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}
