// Package database opens the PostgreSQL pool that backs the case store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"caseflow/internal/config"
)

// ApplicationName tags caseflow sessions in pg_stat_activity.
const ApplicationName = "caseflow"

// Deadlines and overdue checks compare timestamps read back from the store, so every
// session runs in UTC regardless of the server default.
const sessionTimeZone = "UTC"

const pingTimeout = 5 * time.Second

// openDB is swapped out in tests.
var openDB = sql.Open

// Pool is the connection pool shape applied to the store.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Every mutation holds one connection for a short transaction; a handful covers the
// per-document locking in the service layer.
var defaultPool = Pool{MaxOpen: 10, MaxIdle: 5, MaxLifetime: 30 * time.Minute}

// PoolFor resolves the pool from config. Unset values fall back to the defaults and the
// idle count never exceeds the open limit.
func PoolFor(c config.DatabaseConfig) Pool {
	p := defaultPool
	if c.MaxOpenConns > 0 {
		p.MaxOpen = c.MaxOpenConns
	}
	if c.MaxIdleConns > 0 {
		p.MaxIdle = c.MaxIdleConns
	}
	if c.ConnMaxLifetimeSec > 0 {
		p.MaxLifetime = time.Duration(c.ConnMaxLifetimeSec) * time.Second
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	return p
}

// DSN renders the connection URL for the case store.
// Example: postgres://caseflow:secret@db:5432/caseflow?application_name=caseflow&sslmode=disable&timezone=UTC
func DSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"DB_HOST", c.Host}, {"DB_PORT", c.Port}, {"DB_USER", c.User}, {"DB_NAME", c.Name},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("database settings missing: %s", strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	q := url.Values{}
	q.Set("application_name", ApplicationName)
	q.Set("timezone", sessionTimeZone)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Open returns a traced pool on the pgx stdlib driver, sized by PoolFor and verified
// with a ping. The pool is closed again when the ping fails.
func Open(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL, semconv.DBName(c.Name)),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register traced driver: %w", err)
	}

	db, err := openDB(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open case store: %w", err)
	}

	p := PoolFor(c)
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxLifetime(p.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping case store at %s:%s: %w", c.Host, c.Port, err)
	}
	return db, nil
}
