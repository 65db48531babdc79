package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("debug %d", 1)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug 1")))

			log.Info("info %s", "line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)

	log.Error("hidden")
	assert.Zero(t, buf.Len())

	log.SetLevel(LevelNormal)
	assert.Equal(t, LevelNormal, log.GetLevel())

	log.Error("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "ERROR")
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)
	child := log.Named("timer")

	child.Info("tick")
	assert.Contains(t, buf.String(), "timer")

	buf.Reset()
	log.SetLevel(LevelOff)
	child.Warn("quiet")
	assert.Zero(t, buf.Len())
}
