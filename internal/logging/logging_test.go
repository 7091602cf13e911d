package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewCLI_FiltersBelowWarnUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewCLI(&buf, false)
	l.Info("quiet")
	l.WithField("op", "load_tasks").Warn("refresh failed")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "refresh failed")
	assert.Contains(t, out, "op=load_tasks")

	buf.Reset()
	NewCLI(&buf, true).Debug("chatty")
	assert.Contains(t, buf.String(), "chatty")
}

func TestNewTUI_WritesJSONLinesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l, closeFn, err := NewTUI(path)
	require.NoError(t, err)

	l.WithField("status", 500).Warn("reorder failed")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "reorder failed", entry["msg"])
	assert.Equal(t, float64(500), entry["status"])
}

func TestNewTUI_NoPathDiscards(t *testing.T) {
	l, closeFn, err := NewTUI("")
	require.NoError(t, err)
	l.Error("nowhere")
	assert.NoError(t, closeFn())
}

func TestSpanExporter_LogsSpanAttributes(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(log.DebugLevel)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewSpanExporter(l)))
	_, span := tp.Tracer("t").Start(context.Background(), "GET /tasks")
	span.SetAttributes(attribute.Int("http.status_code", 200))
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "span", entry.Message)
	assert.Equal(t, "GET /tasks", entry.Data["span"])
	assert.Equal(t, int64(200), entry.Data["http.status_code"])
}
