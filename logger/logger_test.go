package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerKeyValues(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("component", "test").Warn("something odd", "id", 7)
	log.Printf("gorm says %d rows", 3)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "something odd", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "test", fields["component"])
	assert.EqualValues(t, 7, fields["id"])
	assert.Equal(t, "gorm says 3 rows", entries[1].Message)
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, log.SugaredLogger)
	}
}
