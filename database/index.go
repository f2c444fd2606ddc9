package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/matchmaker/helper"
)

const (
	IndexTypeHNSW    = "hnsw"
	IndexTypeIVFFlat = "ivfflat"
)

// ChangeIndexType changes the index on responses.embedding between HNSW and IVFFlat.
// params are optional:
//   - For HNSW: "m" (int, default 16), "ef_construction" (int, default 64)
//   - For IVFFlat: "lists" (int, default 100)
func (h *ResponsesDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]int) error {
	var createIndexSQL string
	switch indexType {
	case IndexTypeHNSW:
		m := paramOrDefault(params, "m", 16)
		efConstruction := paramOrDefault(params, "ef_construction", 64)
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_responses_embedding ON responses USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)
	case IndexTypeIVFFlat:
		lists := paramOrDefault(params, "lists", 100)
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_responses_embedding ON responses USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)
	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw' or 'ivfflat')", indexType))
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_responses_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = tx.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Info("Changed vector index", slog.String("type", indexType), slog.Any("params", params))

	return nil
}

func paramOrDefault(params map[string]int, key string, defaultValue int) int {
	if value, ok := params[key]; ok && value > 0 {
		return value
	}
	return defaultValue
}
