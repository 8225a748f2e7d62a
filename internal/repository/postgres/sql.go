package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"caseflow/internal/repository"
)

const uniqueViolation = "23505"

// columns maps exposed filter/sort fields to SQL columns. Anything not listed is rejected,
// so user input never reaches the query text.
type columns map[string]string

var documentColumns = columns{
	repository.DocFieldID:             "id",
	repository.DocFieldNumber:         "number",
	repository.DocFieldCategory:       "category",
	repository.DocFieldSubmitterName:  "submitter_name",
	repository.DocFieldSubmitterPhone: "submitter_phone",
	repository.DocFieldStatus:         "status",
	repository.DocFieldUnitID:         "unit_id",
	repository.DocFieldPriority:       "priority",
	repository.DocFieldDeadline:       "deadline",
	repository.DocFieldCreatedAt:      "created_at",
	repository.DocFieldUpdatedAt:      "updated_at",
}

var stepColumns = columns{
	repository.StepFieldID:          "id",
	repository.StepFieldDocumentID:  "document_id",
	repository.StepFieldFromUnitID:  "from_unit_id",
	repository.StepFieldToUnitID:    "to_unit_id",
	repository.StepFieldSeq:         "seq",
	repository.StepFieldState:       "state",
	repository.StepFieldPriority:    "priority",
	repository.StepFieldAssignedAt:  "assigned_at",
	repository.StepFieldCompletedAt: "completed_at",
	repository.StepFieldDeadline:    "deadline",
}

// args accumulates positional query arguments.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func (c columns) condition(cond repository.Condition, a *args) (string, error) {
	col, ok := c[cond.Field]
	if !ok {
		return "", fmt.Errorf("%w: %s", repository.ErrUnknownField, cond.Field)
	}
	switch cond.Op {
	case repository.OpEq:
		return col + " = " + a.add(cond.Value), nil
	case repository.OpIContains:
		s, _ := cond.Value.(string)
		return col + " ILIKE " + a.add("%"+escapeLike(s)+"%"), nil
	case repository.OpGTE:
		return col + " >= " + a.add(cond.Value), nil
	case repository.OpLTE:
		return col + " <= " + a.add(cond.Value), nil
	case repository.OpLT:
		return col + " < " + a.add(cond.Value), nil
	case repository.OpIn:
		values, _ := cond.Value.([]string)
		if len(values) == 0 {
			return "FALSE", nil
		}
		ph := make([]string, 0, len(values))
		for _, v := range values {
			ph = append(ph, a.add(v))
		}
		return col + " IN (" + strings.Join(ph, ", ") + ")", nil
	}
	return "", fmt.Errorf("unsupported operator %q", cond.Op)
}

// where renders f as a WHERE clause (empty when f has no conditions).
func (c columns) where(f repository.Filter, a *args) (string, error) {
	var parts []string
	for _, cond := range f.All {
		s, err := c.condition(cond, a)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(f.Any) > 0 {
		var or []string
		for _, cond := range f.Any {
			s, err := c.condition(cond, a)
			if err != nil {
				return "", err
			}
			or = append(or, s)
		}
		parts = append(parts, "("+strings.Join(or, " OR ")+")")
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

// orderBy renders the sort list, falling back to def, with id as the final tie-break.
func (c columns) orderBy(sorts []repository.Sort, def repository.Sort) (string, error) {
	if len(sorts) == 0 {
		sorts = []repository.Sort{def}
	}
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		col, ok := c[s.Field]
		if !ok {
			return "", fmt.Errorf("%w: %s", repository.ErrUnknownField, s.Field)
		}
		parts = append(parts, col+direction(s.Desc))
	}
	parts = append(parts, "id"+direction(sorts[len(sorts)-1].Desc))
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}

func limitOffset(q repository.Query, a *args) string {
	if q.Limit <= 0 {
		return ""
	}
	s := " LIMIT " + a.add(q.Limit)
	if q.Offset > 0 {
		s += " OFFSET " + a.add(q.Offset)
	}
	return s
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// setList accumulates "column = $n" assignments for UPDATE statements.
type setList struct {
	parts []string
	args  args
}

func (s *setList) set(col string, v any) {
	s.parts = append(s.parts, col+" = "+s.args.add(v))
}

func (s *setList) raw(expr string) {
	s.parts = append(s.parts, expr)
}

func (s *setList) String() string {
	return strings.Join(s.parts, ", ")
}

// nullString stores empty strings as NULL in nullable reference columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}
