// Package storage picks the approval store backend from configuration.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "property_reviews/internal/adapters/redis"
	"property_reviews/internal/domain"
	"property_reviews/internal/shared"
	"property_reviews/internal/storage/jsonfile"
	"property_reviews/internal/storage/memory"
	mysqlrepo "property_reviews/internal/storage/mysql"
)

// Open returns the configured approval store and a function releasing its
// resources.
func Open(ctx context.Context, cfg shared.Config) (domain.ApprovalStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.ApprovalBackend {
	case "memory", "ephemeral":
		return memory.New(), noop, nil

	case "", "file":
		st, err := jsonfile.Open(cfg.ApprovalsFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.ApprovalsFile).Msg("approvals stored in file")
		return st, noop, nil

	case "redis":
		st := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisKey)
		if err := st.Ping(ctx); err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Str("key", cfg.RedisKey).Msg("approvals stored in redis")
		return st, st.Close, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("approvals stored in mysql")
		return repo, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown APPROVAL_BACKEND %q", cfg.ApprovalBackend)
}
