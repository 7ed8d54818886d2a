package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"market/internal/infra/requestctx"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferedGormLogger(debug bool) (logger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return newGormSlogLogger(base, debug), &buf
}

func TestGormSlogLogger_Trace(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("queries hidden outside debug", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), query, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("queries logged in debug", func(t *testing.T) {
		l, buf := newBufferedGormLogger(true)
		l.Trace(ctx, time.Now(), query, nil)
		assert.Contains(t, buf.String(), "GORM query")
	})

	t.Run("record not found ignored", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("errors logged", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		l.Trace(ctx, time.Now(), query, gorm.ErrInvalidData)
		assert.Contains(t, buf.String(), "GORM query failed")
	})

	t.Run("slow queries logged with truncated sql", func(t *testing.T) {
		l, buf := newBufferedGormLogger(false)
		long := func() (string, int64) { return "INSERT " + strings.Repeat("x", 2*maxLoggedSQL), 1 }
		l.Trace(ctx, time.Now().Add(-time.Second), long, nil)
		assert.Contains(t, buf.String(), "GORM slow query")
		assert.Less(t, len(buf.String()), 2*maxLoggedSQL)
	})
}

func TestGormSlogLogger_TagsRequestID(t *testing.T) {
	l, buf := newBufferedGormLogger(true)
	ctx := requestctx.WithRequestID(context.Background(), "req-7")

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	l.Warn(ctx, "pool %s", "busy")

	assert.Equal(t, 2, strings.Count(buf.String(), "request_id=req-7"))
	assert.Contains(t, buf.String(), "pool busy")
}
