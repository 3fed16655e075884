package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func TestNew_Defaults(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_FileOutputUsesRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi-generator.log")

	l, err := New(Options{File: path, MaxSizeMB: 5, MaxBackups: 2})
	require.NoError(t, err)

	out, ok := l.Out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, out.Filename)
	assert.Equal(t, 5, out.MaxSize)
}

func TestWithComponent_JSONFields(t *testing.T) {
	l, err := New(Options{Level: "debug", Format: "json"})
	require.NoError(t, err)

	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithComponent("multi").WithFields(Fields{"legs": 3}).Info("generated")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "multi", line["component"])
	assert.Equal(t, "generated", line["message"])
	assert.EqualValues(t, 3, line["legs"])
}

func TestLogPerformance(t *testing.T) {
	l := Discard()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	LogPerformance(l.WithComponent("fetcher"), "fetch_all", 1500*time.Millisecond, nil)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "fetch_all", line["operation"])
	assert.InDelta(t, 1500.0, line["duration_ms"], 0.001)
}
