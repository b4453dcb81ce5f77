package chat

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type pgChecker struct {
	driver  string
	timeout time.Duration
}

// NewPGChecker only reads: ping plus one SELECT.
func NewPGChecker(timeout time.Duration) DBChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &pgChecker{driver: "postgres", timeout: timeout}
}

func (p *pgChecker) Check(ctx context.Context, dsn string) (DBInfo, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if _, err := pq.ParseURL(dsn); err != nil {
			return DBInfo{}, fmt.Errorf("parse database url: %w", err)
		}
	} else if !strings.Contains(dsn, "=") {
		return DBInfo{}, fmt.Errorf("parse database url: unsupported connection string %q", redact(dsn))
	}

	db, err := sql.Open(p.driver, dsn)
	if err != nil {
		return DBInfo{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return DBInfo{}, fmt.Errorf("ping database: %w", err)
	}

	var info DBInfo
	if err := db.QueryRowContext(ctx, `
		SELECT current_database(), version()
	`).Scan(&info.Database, &info.Version); err != nil {
		return DBInfo{}, fmt.Errorf("query server info: %w", err)
	}

	return info, nil
}

// redact keeps the scheme and drops the rest, enough to tell what was passed
// without echoing credentials.
func redact(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}
	if len(dsn) > 12 {
		return dsn[:12] + "..."
	}
	return dsn
}
