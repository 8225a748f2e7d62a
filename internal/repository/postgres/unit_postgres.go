package postgres

import (
	"context"
	"database/sql"

	"caseflow/internal/model"
	"caseflow/internal/repository"
)

// UnitPostgres reads the organizational unit directory.
type UnitPostgres struct {
	db *sql.DB
}

// NewUnitPostgres creates a new UnitPostgres repository.
func NewUnitPostgres(db *sql.DB) *UnitPostgres {
	return &UnitPostgres{db: db}
}

var _ repository.UnitRepository = (*UnitPostgres)(nil)

// ListActive returns active units ordered by code.
func (r *UnitPostgres) ListActive(ctx context.Context) ([]model.OrganizationalUnit, error) {
	const q = `
		SELECT id, code, name, active
		FROM organizational_units
		WHERE active = TRUE
		ORDER BY code ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]model.OrganizationalUnit, 0)
	for rows.Next() {
		var u model.OrganizationalUnit
		if err := rows.Scan(&u.ID, &u.Code, &u.Name, &u.Active); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return units, nil
}

// FindByID fetches a unit regardless of its active flag.
func (r *UnitPostgres) FindByID(ctx context.Context, id string) (*model.OrganizationalUnit, error) {
	const q = `SELECT id, code, name, active FROM organizational_units WHERE id = $1`
	var u model.OrganizationalUnit
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Code, &u.Name, &u.Active); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
