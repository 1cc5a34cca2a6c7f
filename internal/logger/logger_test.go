package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("prod", "verbose"); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		l, err := NewLogger(env)
		if err != nil {
			t.Errorf("NewLogger(%q): unexpected error: %v", env, err)
			continue
		}
		if l == nil {
			t.Errorf("NewLogger(%q): nil logger", env)
		}
	}
}

func TestFromContext_Fallback(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected nop logger, got nil")
	}

	tagged := zap.NewNop().With(zap.String("request_id", "r-1"))
	ctx := ContextWithLogger(context.Background(), tagged)
	if got := FromContext(ctx); got != tagged {
		t.Error("expected the stored logger back from the context")
	}
}

func TestNewLogger_TagsServiceField(t *testing.T) {
	// The prod config writes JSON to stderr; swap it for a pipe so the
	// emitted line can be inspected.
	orig := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	l, err := NewLogger("prod")
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Info("service field check")
	_ = l.Sync()
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read log output: %v", err)
	}
	if !strings.Contains(string(out), `"service":"pocketmind"`) {
		t.Errorf("expected service field in log output, got %s", out)
	}
}
