package repository

import (
	"context"
	"errors"

	"github.com/settleline/api/internal/database"
	"github.com/settleline/api/internal/model"
)

// StatsRepository handles the singleton aggregate counter record
type StatsRepository struct {
	db database.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db database.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get retrieves the stats record, returning a zeroed value when it has not
// been created yet
func (r *StatsRepository) Get(ctx context.Context) (*model.Stats, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": model.StatsID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return &model.Stats{ID: model.StatsID}, nil
		}
		return nil, err
	}

	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}
	return &model.Stats{
		ID:        extractRecordID(m["id"]),
		PaidUsers: getInt(m, "paid_users"),
		UpdatedOn: getTime(m, "updated_on"),
	}, nil
}

// AddPaidUsers applies a delta to the paid-user counter, creating the record
// on first use. The counter is clamped at zero so an out-of-order decrement
// cannot drive it negative.
func (r *StatsRepository) AddPaidUsers(ctx context.Context, delta int) error {
	query := `
		UPSERT type::record($id) SET
			paid_users = math::max([(paid_users ?? 0) + $delta, 0]),
			updated_on = time::now()
	`
	vars := map[string]interface{}{"id": model.StatsID, "delta": delta}

	return r.db.Execute(ctx, query, vars)
}
