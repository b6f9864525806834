package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNewHonoursLevel(t *testing.T) {
	l := New(Options{Level: zapcore.WarnLevel})
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewWithRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "studio.log")
	l := New(Options{Level: zapcore.InfoLevel, File: file, MaxSizeMB: 1})
	l.Info("written to file")
	_ = l.Sync()
	assert.FileExists(t, file)
}
