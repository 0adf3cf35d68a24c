package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, fields ...string) *slog.Logger {
	return slog.New(newHandler([]slog.Handler{newJSONHandler(buf, slog.LevelDebug)}, fields, "kiosk-07"))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	return out
}

func TestHandler_MasksFields(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, "code", " Access_Token ")

	ctx := SetCorrelationID(context.Background(), "cid-42")
	log.InfoContext(ctx, "verify",
		"code", "552013",
		"request", `{"purpose":"login","code":"552013"}`,
		"body", []byte(`{"session":{"access_token":"abc"}}`),
		slog.Group("otc", slog.String("code", "1"), slog.String("purpose", "order")),
	)

	out := decode(t, &buf)
	assert.Equal(t, "***", out["code"])
	assert.JSONEq(t, `{"purpose":"login","code":"***"}`, out["request"].(string))
	assert.JSONEq(t, `{"session":{"access_token":"***"}}`, out["body"].(string))
	assert.Equal(t, map[string]any{"code": "***", "purpose": "order"}, out["otc"])
	assert.Equal(t, "cid-42", out["_cID"])
	assert.Equal(t, "kiosk-07", out["kiosk"])
	assert.Equal(t, "INFO", out["severity"])
	assert.Contains(t, out["file"], "internal/pkg/instrument/logging_test.go:")
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := newTestLogger(&buf, "access_token").With("access_token", "abc", "purpose", "login")

	log.Warn("session cleared")

	out := decode(t, &buf)
	assert.Equal(t, "***", out["access_token"])
	assert.Equal(t, "login", out["purpose"])
	assert.Nil(t, out["_cID"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "kiosk"})
	require.NoError(t, err)
	assert.NotNil(t, ins.Tracer("t"))
	assert.NotNil(t, ins.Meter("m"))
	assert.NoError(t, ins.Shutdown(context.Background()))
}
