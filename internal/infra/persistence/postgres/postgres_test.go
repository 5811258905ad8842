package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type logRecord struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func records(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()

	var out []logRecord
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec logRecord
		require.NoError(t, json.Unmarshal(line, &rec))
		out = append(out, rec)
	}

	return out
}

func statement() (string, int64) {
	return "SELECT 1", 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		opts    GormLogOptions
		elapsed time.Duration
		err     error
		want    []logRecord
	}{
		{
			name: "fast query stays quiet",
			opts: GormLogOptions{SlowThreshold: time.Second},
		},
		{
			name:    "slow query warns",
			opts:    GormLogOptions{SlowThreshold: 10 * time.Millisecond},
			elapsed: 50 * time.Millisecond,
			want:    []logRecord{{Level: "WARN", Msg: "GORM slow query"}},
		},
		{
			name:    "zero threshold disables slow check",
			elapsed: time.Second,
		},
		{
			name: "driver failure is an error",
			err:  errors.New("connection reset"),
			want: []logRecord{{Level: "ERROR", Msg: "GORM query failed"}},
		},
		{
			name: "missing row is silent",
			err:  gorm.ErrRecordNotFound,
		},
		{
			name: "duplicate key is silent outside debug",
			err:  errors.Wrap(gorm.ErrDuplicatedKey, "insert receipt"),
		},
		{
			name: "duplicate key is info in debug",
			opts: GormLogOptions{Debug: true},
			err:  gorm.ErrDuplicatedKey,
			want: []logRecord{{Level: "INFO", Msg: "GORM constraint rejected"}},
		},
		{
			name: "foreign key rejection is not an error",
			err:  gorm.ErrForeignKeyViolated,
		},
		{
			name: "debug logs every statement",
			opts: GormLogOptions{Debug: true, SlowThreshold: time.Second},
			want: []logRecord{{Level: "INFO", Msg: "GORM query"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := captureLogger()
			gormLogger := NewGormSlogLogger(logger, tt.opts)

			gormLogger.Trace(context.Background(), time.Now().Add(-tt.elapsed), statement, tt.err)

			assert.Equal(t, tt.want, records(t, buf))
		})
	}
}

func TestGormSlogLogger_SilentMode(t *testing.T) {
	logger, buf := captureLogger()
	gormLogger := NewGormSlogLogger(logger, GormLogOptions{Debug: true}).LogMode(gormlogger.Silent)

	gormLogger.Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	gormLogger.Error(context.Background(), "failed %s", "x")

	assert.Empty(t, buf.String())
}

type poolWaits struct {
	bursts []time.Duration
}

func (p *poolWaits) PoolWaitExceeded(waited time.Duration) {
	p.bursts = append(p.bursts, waited)
}

func statsSequence(snapshots ...sql.DBStats) func() sql.DBStats {
	i := 0

	return func() sql.DBStats {
		s := snapshots[i]
		if i < len(snapshots)-1 {
			i++
		}

		return s
	}
}

func TestPoolMonitor_Sample(t *testing.T) {
	logger, buf := captureLogger()
	observer := &poolWaits{}

	monitor := newPoolMonitor(statsSequence(
		sql.DBStats{WaitCount: 10, WaitDuration: time.Second},
		sql.DBStats{WaitCount: 10, WaitDuration: time.Second},
		sql.DBStats{WaitCount: 12, WaitDuration: time.Second + 20*time.Millisecond},
		sql.DBStats{WaitCount: 20, WaitDuration: 2 * time.Second},
	), logger, observer, 50*time.Millisecond)

	ctx := context.Background()

	assert.Zero(t, monitor.sample(ctx), "no new waits")
	assert.Equal(t, 20*time.Millisecond, monitor.sample(ctx))
	assert.Equal(t, 980*time.Millisecond, monitor.sample(ctx))

	assert.Equal(t, []time.Duration{980 * time.Millisecond}, observer.bursts)
	assert.Equal(t, []logRecord{
		{Level: "DEBUG", Msg: "Postgres pool wait"},
		{Level: "WARN", Msg: "Postgres pool wait"},
	}, records(t, buf))
}

func TestPoolMonitor_WithoutObserver(t *testing.T) {
	monitor := newPoolMonitor(statsSequence(
		sql.DBStats{},
		sql.DBStats{WaitCount: 1, WaitDuration: time.Second},
	), nil, nil, time.Millisecond)

	assert.Equal(t, time.Second, monitor.sample(context.Background()))
}
