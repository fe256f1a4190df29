package textclass

import (
	"context"
	"runtime"

	"github.com/Veraticus/spice-insight/internal/model"
	"golang.org/x/sync/errgroup"
)

// Expense is one title/description pair to classify.
type Expense struct {
	Title       string
	Description string
}

// ClassifyBatch classifies expenses concurrently against a single model
// snapshot. Results line up with the input. progress, if non-nil, is called
// once per finished item and must be safe for concurrent use.
func (s *Service) ClassifyBatch(ctx context.Context, expenses []Expense, progress func()) ([]model.Prediction, error) {
	state := s.current.Load()
	results := make([]model.Prediction, len(expenses))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range expenses {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.classifyWith(state, model.Document(e.Title, e.Description))
			if progress != nil {
				progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
