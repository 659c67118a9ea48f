package tools

import (
	"context"
	"errors"
	"testing"
)

func TestDecodeChatHistory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty string", "", 0},
		{"valid history", `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`, 2},
		{"malformed JSON degrades to nil", `[{"role":`, 0},
		{"wrong shape degrades to nil", `{"role":"user"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeChatHistory(tt.input)
			if len(got) != tt.want {
				t.Errorf("got %d turns, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDecodeChatHistory_PreservesRoles(t *testing.T) {
	history := decodeChatHistory(`[{"role":"user","content":"what changed?"}]`)
	if len(history) != 1 {
		t.Fatalf("got %d turns, want 1", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "what changed?" {
		t.Errorf("turn = %+v", history[0])
	}
}

func TestStringSlice(t *testing.T) {
	args := map[string]any{
		"symbols": []any{"AAPL", "MSFT", 42, ""},
		"scalar":  "AAPL",
	}

	got := stringSlice(args, "symbols")
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Errorf("stringSlice = %v", got)
	}

	if stringSlice(args, "scalar") != nil {
		t.Error("scalar argument should yield nil")
	}
	if stringSlice(args, "missing") != nil {
		t.Error("missing argument should yield nil")
	}
}

func TestBuildHealthReport(t *testing.T) {
	ok := func() error { return nil }
	okCtx := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("down") }

	t.Run("document store down means unhealthy", func(t *testing.T) {
		r := &Registry{}
		report := r.BuildHealthReport(context.Background())
		if report.Status != StatusUnhealthy {
			t.Errorf("Status = %q, want %q", report.Status, StatusUnhealthy)
		}
	})

	t.Run("index down degrades rag only", func(t *testing.T) {
		r := &Registry{DBPing: ok, RedisPing: okCtx, IndexPing: down}
		report := r.BuildHealthReport(context.Background())

		if report.Status != StatusDegraded {
			t.Errorf("Status = %q, want %q", report.Status, StatusDegraded)
		}
		if report.Servers["rag"].Status != StatusDegraded {
			t.Errorf("rag status = %q, want %q", report.Servers["rag"].Status, StatusDegraded)
		}
		if report.Servers["corporate-actions"].Status != StatusHealthy {
			t.Errorf("corporate-actions status = %q, want %q",
				report.Servers["corporate-actions"].Status, StatusHealthy)
		}
	})

	t.Run("report lists tools per group", func(t *testing.T) {
		r := &Registry{DBPing: ok, RedisPing: okCtx, IndexPing: okCtx}
		report := r.BuildHealthReport(context.Background())

		if report.Timestamp == "" {
			t.Error("missing timestamp")
		}
		if len(report.Servers["corporate-actions"].Tools) == 0 {
			t.Error("corporate-actions group lists no tools")
		}
	})
}
