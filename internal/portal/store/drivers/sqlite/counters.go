package sqlite

import (
	"context"

	"github.com/aussiebroadwan/barangay/internal/portal/store/drivers/sqlite/gen"
)

type countersRepo struct {
	q *gen.Queries
}

// Next relies on the upsert running as a single statement, which sqlite
// serialises against other writers.
func (r *countersRepo) Next(ctx context.Context, name string) (int64, error) {
	return r.q.NextCounter(ctx, name)
}
