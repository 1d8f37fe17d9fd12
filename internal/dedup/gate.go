package dedup

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"papercast/internal/logging"
	"papercast/internal/store"
	"papercast/internal/textutil"
)

const (
	// DefaultTitleThreshold is the cosine similarity above which two titles
	// count as near-duplicates for the advisory check.
	DefaultTitleThreshold = 0.85

	// recentTitleWindow bounds how many published titles the advisory
	// check compares against.
	recentTitleWindow = 50
)

// RecordStore is the slice of the persistence layer the gate reads.
type RecordStore interface {
	PaperByArxivID(ctx context.Context, arxivID string) (*store.Paper, error)
	RecentPaperTitles(ctx context.Context, limit int) ([]string, error)
}

// Gate answers whether a document has been processed before.
type Gate struct {
	records        RecordStore
	logger         *slog.Logger
	titleThreshold float64
}

// NewGate constructs a gate over the given record store.
func NewGate(records RecordStore, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{
		records:        records,
		logger:         logging.NewComponentLogger(logger, "dedup"),
		titleThreshold: DefaultTitleThreshold,
	}
}

// IsNew reports whether no published record exists for the identifier.
// A failed lookup does not block the candidate: the error is logged and
// processing continues, with the unique index on records as the final
// guard against double publication.
func (g *Gate) IsNew(ctx context.Context, arxivID string) bool {
	paper, err := g.records.PaperByArxivID(ctx, arxivID)
	switch {
	case err == nil:
		g.logger.Info("candidate already processed",
			logging.String("arxiv_id", arxivID),
			logging.String("existing_title", paper.Title))
		return false
	case errors.Is(err, store.ErrNotFound):
		return true
	default:
		g.logger.Warn("dedup lookup failed, letting candidate through",
			logging.String("arxiv_id", arxivID),
			logging.Error(err))
		return true
	}
}

// TitleMatch is an advisory near-duplicate hit against a published title.
type TitleMatch struct {
	Title string
	Score float64
}

// SimilarTitle scans recent record titles for a near-duplicate. The result
// is advisory only; a failed lookup reports no match.
func (g *Gate) SimilarTitle(ctx context.Context, title string) (TitleMatch, bool) {
	if strings.TrimSpace(title) == "" {
		return TitleMatch{}, false
	}
	titles, err := g.records.RecentPaperTitles(ctx, recentTitleWindow)
	if err != nil {
		g.logger.Debug("recent title lookup failed", logging.Error(err))
		return TitleMatch{}, false
	}

	var best TitleMatch
	for _, existing := range titles {
		if score := textutil.TitleSimilarity(title, existing); score > best.Score {
			best = TitleMatch{Title: existing, Score: score}
		}
	}
	if best.Score >= g.titleThreshold {
		return best, true
	}
	return TitleMatch{}, false
}
