package history

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/model"
)

// detailConcurrency bounds the fan-out of per-session detail fetches.
const detailConcurrency = 4

// Service fetches and reconciles a user's session history.
type Service struct {
	backend *backend.Client
	log     *zap.Logger
}

// NewService returns a history service reading through the backend client.
func NewService(b *backend.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: b, log: log}
}

// History lists the user's reconciled session records, newest first.
//
// Detail rows are fetched concurrently, one request per session. A failure on
// one session never aborts the batch: the session is logged and excluded, and
// the remaining records are returned. Only the summary listing itself is a
// hard error.
func (s *Service) History(ctx context.Context, userID string) ([]model.SessionRecord, error) {
	rows, err := s.backend.Sessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]*model.SessionRecord, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			rec, err := s.one(gctx, row)
			if err != nil {
				s.log.Warn("session excluded from history",
					zap.Int64("session_id", row.ID),
					zap.Error(err))
				return nil
			}
			records[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.SessionRecord, 0, len(records))
	for _, rec := range records {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// Record fetches and reconciles a single session.
func (s *Service) Record(ctx context.Context, row backend.SessionRow) (model.SessionRecord, error) {
	return s.one(ctx, row)
}

func (s *Service) one(ctx context.Context, row backend.SessionRow) (model.SessionRecord, error) {
	detail, err := s.backend.SessionExercises(ctx, row.ID)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("%w: %s", errs.ErrReconciliation, err)
	}
	return Reconcile(row, detail), nil
}
