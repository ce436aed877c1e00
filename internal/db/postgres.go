package db

import (
	"fmt"
	"time"

	"steel-ledger/mtrledger/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// InitSQLX returns a sqlx handle for hand-written read queries. Postgres gets its own
// pool through lib/pq; sqlite shares the GORM connection so both see the same file.
func InitSQLX(cfg *config.Config, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.DBDriver != "postgres" {
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
		}
		return sqlx.NewDb(sqlDB, "sqlite3"), nil
	}

	var err error
	for i := 0; i < 10; i++ {
		var conn *sqlx.DB
		if conn, err = sqlx.Connect("postgres", cfg.PostgresDSN()); err == nil {
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, err
}
