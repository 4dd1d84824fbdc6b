package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicefaq/internal/models"
)

func TestInsertQueryLogSQL(t *testing.T) {
	entry := &models.QueryLog{
		ID:            uuid.New(),
		Transcription: "vegan options",
		Intent:        models.IntentMenuQuery,
		Entities:      models.Entities{Diet: "vegan"},
		Response:      "Vegan options: Salad.",
		STTModel:      "base",
		K:             3,
		FAQSource:     models.FAQSourceDefault,
		LatencyMs:     42,
		CreatedAt:     time.Now(),
	}

	sql, args, err := insertQueryLog(entry).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO query_logs (id,transcription,intent,entities,faq_matches,response,stt_model,k,faq_source,latency_ms,created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)",
		sql)
	require.Len(t, args, 11)
	assert.Equal(t, "menu_query", args[2])
	assert.Equal(t, `{"diet":"vegan"}`, args[3])
	assert.Equal(t, `[]`, args[4])
	assert.Equal(t, "default", args[8])
}

func TestSelectRecentQueryLogsSQL(t *testing.T) {
	sql, args, err := selectRecentQueryLogs(10, 20).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, transcription, intent, entities, faq_matches, response, stt_model, k, faq_source, latency_ms, created_at "+
			"FROM query_logs ORDER BY created_at DESC LIMIT 10 OFFSET 20",
		sql)
	assert.Empty(t, args)

	sql, _, err = selectRecentQueryLogs(0, -5).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 50 OFFSET 0")
}
