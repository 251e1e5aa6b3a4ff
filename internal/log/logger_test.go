package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, " warn ": slog.LevelWarn,
		"error": slog.LevelError, "": slog.LevelInfo, "verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerComponentAndFailure(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, ComponentFinance)
	l.Failure(context.Background(), "Persist failed", OpCreate, errors.New("disk full"), FieldTxID, "abc")

	out := buf.String()
	for _, want := range []string{"component=finance", "operation=create", `error="disk full"`, "transaction_id=abc"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %q", out, want)
		}
	}
}

func TestLogRequestUsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, slog.LevelInfo, ComponentHTTP)
	r := httptest.NewRequest(http.MethodGet, "/diet/meals", nil)
	ctx := IntoContext(r.Context(), base.With(FieldRequestID, "req-1"))
	LogRequest(ctx, r, http.StatusNotFound, 3, "127.0.0.1")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("unexpected log output %q", out)
	}
}
