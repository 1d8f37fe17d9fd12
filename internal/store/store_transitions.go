package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Transition carries the side effects written together with a status change.
type Transition struct {
	// ErrorMessage is required when moving to failed.
	ErrorMessage string
	// PaperID is required when moving to completed and references the
	// published record produced from this submission.
	PaperID *int64
}

// UpdateUploadStatus moves a submission from one status to another. The
// update is guarded by the expected prior status: if the row has moved on
// (another worker claimed it) the call returns ErrStatusConflict, and
// terminal rows always return ErrTerminalState. Transitions not in the
// lifecycle graph are rejected outright.
func (s *Store) UpdateUploadStatus(ctx context.Context, id string, from, to Status, tr Transition) error {
	if _, ok := statusSet[from]; !ok {
		return fmt.Errorf("update upload status: unknown status %q", from)
	}
	if _, ok := statusSet[to]; !ok {
		return fmt.Errorf("update upload status: unknown status %q", to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", ErrTerminalState, id, from)
	}
	if !from.CanTransition(to) {
		return fmt.Errorf("update upload status: %s -> %s is not a valid transition", from, to)
	}
	if to == StatusFailed && strings.TrimSpace(tr.ErrorMessage) == "" {
		return errors.New("update upload status: failed transition requires an error message")
	}
	if to == StatusCompleted && tr.PaperID == nil {
		return errors.New("update upload status: completed transition requires a paper id")
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE pending_uploads
         SET status = ?, error_message = ?, paper_id = COALESCE(?, paper_id), updated_at = ?
         WHERE id = ? AND status = ?`,
		string(to),
		nullableString(strings.TrimSpace(tr.ErrorMessage)),
		nullableInt64(tr.PaperID),
		formatTime(time.Now().UTC()),
		id,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("update upload status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update upload status affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// The guarded update matched nothing; distinguish why.
	current, getErr := s.GetUpload(ctx, id)
	if getErr != nil {
		return getErr
	}
	if current.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", ErrTerminalState, id, current.Status)
	}
	return fmt.Errorf("%w: %s expected %s, found %s", ErrStatusConflict, id, from, current.Status)
}

// ClaimUpload moves a pending submission to processing. A lost claim (the
// row was taken by another worker or is no longer pending) returns
// ErrStatusConflict or ErrTerminalState.
func (s *Store) ClaimUpload(ctx context.Context, id string) error {
	return s.UpdateUploadStatus(ctx, id, StatusPending, StatusProcessing, Transition{})
}

// CompleteUpload finalizes a processing submission with the published record.
func (s *Store) CompleteUpload(ctx context.Context, id string, paperID int64) error {
	return s.UpdateUploadStatus(ctx, id, StatusProcessing, StatusCompleted, Transition{PaperID: &paperID})
}

// FailUpload finalizes a processing submission with an error message.
func (s *Store) FailUpload(ctx context.Context, id string, message string) error {
	return s.UpdateUploadStatus(ctx, id, StatusProcessing, StatusFailed, Transition{ErrorMessage: message})
}
