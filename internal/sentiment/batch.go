package sentiment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"SentimentPanel/internal/model"
)

// chunk is the number of headlines scored per goroutine.
const chunk = 256

// ScoreAll returns a copy of items with Polarity filled in, in input order.
// Work is split into chunks scored by at most workers goroutines.
func ScoreAll(ctx context.Context, scorer Scorer, items []model.NewsItem, workers int) ([]model.NewsItem, error) {
	out := make([]model.NewsItem, len(items))
	copy(out, items)

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for start := 0; start < len(out); start += chunk {
		end := min(start+chunk, len(out))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i].Polarity = scorer.Score(out[i].Headline)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
