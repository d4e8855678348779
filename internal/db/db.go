package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/accordmanpower/cmsapi/config"
	_ "github.com/lib/pq"
)

const (
	defaultDBDriver        = "postgres"
	defaultPingTimeout     = 5 * time.Second
	defaultConnMaxIdle     = 10 * time.Second
	defaultConnMaxLife     = 30 * time.Minute
	defaultConnectTimeout  = 10
	defaultStatementTimout = 10 * time.Second
)

// Open creates the process-wide connection pool. It is called once at
// startup and the handle is injected into every repository.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	dsn, err = withPoolTimeouts(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(defaultDBDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxIdleTime(defaultConnMaxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLife)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// withPoolTimeouts adds connect and statement timeouts to URL-style DSNs
// unless the operator already set them.
func withPoolTimeouts(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return dsn, nil
	}

	q := u.Query()
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", fmt.Sprintf("%d", defaultConnectTimeout))
	}
	if q.Get("statement_timeout") == "" {
		q.Set("statement_timeout", fmt.Sprintf("%d", defaultStatementTimout.Milliseconds()))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
