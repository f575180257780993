package database

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
)

func TestSlogAdapter_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	slogAdapter{logger: logger}.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{"sql": "SELECT 1"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=Query")
	assert.Contains(t, out, `sql="SELECT 1"`)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, slogLevel(tracelog.LogLevelError))
	assert.Equal(t, slog.LevelDebug, slogLevel(tracelog.LogLevelInfo))
	assert.Equal(t, slog.LevelDebug, slogLevel(tracelog.LogLevelTrace))
}

func TestNewPostgreSQLDB_BadDSN(t *testing.T) {
	_, err := NewPostgreSQLDB(context.Background(), PoolConfig{DSN: "::not a dsn::"})
	assert.Error(t, err)
}
