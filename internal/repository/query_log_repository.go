package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"voicefaq/internal/models"
)

const queryLogsTable = "query_logs"

var queryLogColumns = []string{
	"id", "transcription", "intent", "entities", "faq_matches", "response",
	"stt_model", "k", "faq_source", "latency_ms", "created_at",
}

type QueryLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewQueryLogRepository(db *pgxpool.Pool, logger *zap.Logger) *QueryLogRepository {
	return &QueryLogRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores one served query.
func (r *QueryLogRepository) Record(ctx context.Context, entry *models.QueryLog) error {
	sql, args, err := insertQueryLog(entry).ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert query log: %w", err)
	}
	return nil
}

// ListRecent returns query logs newest first.
func (r *QueryLogRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.QueryLog, error) {
	sql, args, err := selectRecentQueryLogs(limit, offset).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.QueryLog
	for rows.Next() {
		var (
			entry    models.QueryLog
			entities []byte
			matches  []byte
		)
		if err := rows.Scan(
			&entry.ID, &entry.Transcription, &entry.Intent, &entities, &matches, &entry.Response,
			&entry.STTModel, &entry.K, &entry.FAQSource, &entry.LatencyMs, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(entities, &entry.Entities); err != nil {
			r.logger.Warn("Malformed entities in query log", zap.String("id", entry.ID.String()), zap.Error(err))
		}
		if err := json.Unmarshal(matches, &entry.FAQMatches); err != nil {
			r.logger.Warn("Malformed faq_matches in query log", zap.String("id", entry.ID.String()), zap.Error(err))
		}
		logs = append(logs, &entry)
	}

	return logs, rows.Err()
}

// Count returns the number of stored query logs.
func (r *QueryLogRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := squirrel.Select("COUNT(*)").
		From(queryLogsTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

func insertQueryLog(entry *models.QueryLog) squirrel.InsertBuilder {
	entities, _ := json.Marshal(entry.Entities)
	matches := entry.FAQMatches
	if matches == nil {
		matches = []string{}
	}
	matchesJSON, _ := json.Marshal(matches)

	return squirrel.Insert(queryLogsTable).
		Columns(queryLogColumns...).
		Values(
			entry.ID, entry.Transcription, string(entry.Intent), string(entities), string(matchesJSON), entry.Response,
			entry.STTModel, entry.K, string(entry.FAQSource), entry.LatencyMs, entry.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)
}

func selectRecentQueryLogs(limit, offset int) squirrel.SelectBuilder {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return squirrel.Select(queryLogColumns...).
		From(queryLogsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
}
