package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger() (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errBuf bytes.Buffer
	l := New(&out, &errBuf)
	l.now = func() time.Time { return time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC) }
	return l, &out, &errBuf
}

func TestLogger_Info(t *testing.T) {
	l, out, errBuf := newTestLogger()

	l.Info("sent %d queries", 5)

	if !strings.Contains(out.String(), "sent 5 queries") {
		t.Errorf("out = %q, want it to contain %q", out.String(), "sent 5 queries")
	}
	if errBuf.Len() != 0 {
		t.Errorf("errBuf = %q, want empty", errBuf.String())
	}
	if !strings.HasPrefix(out.String(), "[") {
		t.Errorf("out = %q, want a leading timestamp", out.String())
	}
}

func TestLogger_Error(t *testing.T) {
	l, out, errBuf := newTestLogger()

	l.Error("bind failed on port %d", 53)

	if !strings.Contains(errBuf.String(), "bind failed on port 53") {
		t.Errorf("errBuf = %q, want it to contain the message", errBuf.String())
	}
	if out.Len() != 0 {
		t.Errorf("out = %q, want empty", out.String())
	}
}

func TestLogger_Errno(t *testing.T) {
	l, _, errBuf := newTestLogger()

	l.Errno(errors.New("connection refused"), "sendto failed")

	got := errBuf.String()
	if !strings.Contains(got, "sendto failed") || !strings.Contains(got, "connection refused") {
		t.Errorf("errBuf = %q, want both the message and the underlying error", got)
	}
}
