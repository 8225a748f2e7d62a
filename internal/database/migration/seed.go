package migration

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"caseflow/internal/model"
)

type unitsFile struct {
	Units []struct {
		ID     string `yaml:"id"`
		Code   string `yaml:"code"`
		Name   string `yaml:"name"`
		Active *bool  `yaml:"active"`
	} `yaml:"units"`
}

// LoadUnits reads an organizational unit directory from a YAML file of the form
//
//	units:
//	  - id: u-tiep-dan
//	    code: TD
//	    name: Ban Tiếp dân
//
// Units are active unless the file says otherwise.
func LoadUnits(path string) ([]model.OrganizationalUnit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read units file: %w", err)
	}
	var f unitsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse units file: %w", err)
	}
	units := make([]model.OrganizationalUnit, 0, len(f.Units))
	for i, u := range f.Units {
		if u.ID == "" || u.Code == "" || u.Name == "" {
			return nil, fmt.Errorf("units[%d]: id, code and name are required", i)
		}
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		units = append(units, model.OrganizationalUnit{ID: u.ID, Code: u.Code, Name: u.Name, Active: active})
	}
	return units, nil
}

// SeedUnits upserts units into organizational_units in one transaction.
func SeedUnits(ctx context.Context, db *sql.DB, units []model.OrganizationalUnit) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		INSERT INTO organizational_units (id, code, name, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, active = EXCLUDED.active`
	for _, u := range units {
		if _, err = tx.ExecContext(ctx, q, u.ID, u.Code, u.Name, u.Active); err != nil {
			return fmt.Errorf("seed unit %s: %w", u.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
