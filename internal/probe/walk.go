package probe

import (
	"context"

	"golang.org/x/sync/errgroup"

	"cafefcli/internal/tradedate"
)

type existsFunc func(ctx context.Context, d tradedate.Date) bool
type acceptFunc func(ctx context.Context, d tradedate.Date) (bool, error)

// walkBack examines from, from-1, ..., from-lookback. Dates are probed with
// exists in batches of width running concurrently; accept then runs serially,
// newest first, on the dates that exist. The first accepted date is returned.
// An accept error ends the walk.
func walkBack(ctx context.Context, from tradedate.Date, lookback, width int, exists existsFunc, accept acceptFunc) (tradedate.Date, bool, error) {
	if width < 1 {
		width = 1
	}

	for start := 0; start <= lookback; start += width {
		if err := ctx.Err(); err != nil {
			return tradedate.Date{}, false, err
		}

		end := min(start+width-1, lookback)
		batch := make([]tradedate.Date, 0, end-start+1)
		for back := start; back <= end; back++ {
			batch = append(batch, from.AddDays(-back))
		}

		found := make([]bool, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(width)
		for i, d := range batch {
			g.Go(func() error {
				found[i] = exists(gctx, d)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return tradedate.Date{}, false, err
		}

		for i, d := range batch {
			if !found[i] {
				continue
			}
			ok, err := accept(ctx, d)
			if err != nil {
				return tradedate.Date{}, false, err
			}
			if ok {
				return d, true, nil
			}
		}
	}

	return tradedate.Date{}, false, nil
}
