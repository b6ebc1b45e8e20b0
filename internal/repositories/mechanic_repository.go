package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
)

const mechanicColumns = `id, name, created_date, last_modified_date`

// MechanicRepository is the MySQL store for mechanics.
type MechanicRepository struct {
	DB *sql.DB
}

var _ domain.RecordStore[models.Mechanic] = MechanicRepository{}

func scanMechanic(s rowScanner) (models.Mechanic, error) {
	var m models.Mechanic
	err := s.Scan(&m.ID, &m.Name, &m.CreatedDate, &m.LastModifiedDate)
	return m, err
}

func (r MechanicRepository) CountMatching(ctx context.Context, filterText string) (int64, error) {
	return countMatching(ctx, r.DB, models.MechanicSchema, filterText)
}

func (r MechanicRepository) FetchPage(ctx context.Context, spec domain.QuerySpec) ([]models.Mechanic, error) {
	return fetchPage(ctx, r.DB, models.MechanicSchema, mechanicColumns, spec, scanMechanic)
}

func (r MechanicRepository) Update(ctx context.Context, id int64, apply func(*models.Mechanic)) (*models.Mechanic, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	mech, err := lockByID(ctx, tx, "mechanics", mechanicColumns, id, scanMechanic)
	if err != nil || mech == nil {
		return nil, err
	}
	apply(mech)

	if _, err := tx.ExecContext(ctx, `UPDATE mechanics SET name = ?, last_modified_date = ? WHERE id = ?`,
		mech.Name, mech.LastModifiedDate, mech.ID); err != nil {
		return nil, fmt.Errorf("update mechanic %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return mech, nil
}

func (r MechanicRepository) Delete(ctx context.Context, id int64) (*models.Mechanic, error) {
	return deleteByID(ctx, r.DB, "mechanics", mechanicColumns, id, scanMechanic)
}

func (r MechanicRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
