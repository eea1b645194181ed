package tui

import (
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{9.5, "$9.50"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}
	for _, tc := range tests {
		if got := formatMoney(tc.in); got != tc.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{-3, "-3"},
		{2.5, "2.50"},
	}
	for _, tc := range tests {
		if got := formatQty(tc.in); got != tc.want {
			t.Errorf("formatQty(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := formatDate(nil); got != "-" {
		t.Errorf("formatDate(nil) = %q, want \"-\"", got)
	}
	d := time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC)
	if got := formatDate(&d); got != "2024-03-09" {
		t.Errorf("formatDate = %q, want 2024-03-09", got)
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tc := range tests {
		if got := formatTime(time.Now().Add(-tc.ago)); got != tc.want {
			t.Errorf("formatTime(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hell…"},
		{"empty string", "", 5, ""},
		{"zero width", "hello", 0, ""},
		{"CJK chars", "你好世界", 3, "你好…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncStr(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight(ab, 4) = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abc…" {
		t.Errorf("padRight(abcdef, 4) = %q", got)
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		cursor, n int
		key       string
		want      int
	}{
		{0, 5, "j", 1},
		{4, 5, "down", 4},
		{2, 5, "k", 1},
		{0, 5, "up", 0},
		{3, 5, "g", 0},
		{1, 5, "G", 4},
		{0, 0, "G", 0},
		{2, 5, "x", 2},
	}
	for _, tc := range tests {
		if got := moveCursor(tc.cursor, tc.n, tc.key); got != tc.want {
			t.Errorf("moveCursor(%d, %d, %q) = %d, want %d", tc.cursor, tc.n, tc.key, got, tc.want)
		}
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		start, end        int
	}{
		{0, 5, 10, 0, 5},
		{0, 100, 10, 0, 10},
		{50, 100, 10, 45, 55},
		{99, 100, 10, 90, 100},
		{3, 100, 0, 0, 100},
	}
	for _, tc := range tests {
		start, end := visibleWindow(tc.cursor, tc.n, tc.height)
		if start != tc.start || end != tc.end {
			t.Errorf("visibleWindow(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.cursor, tc.n, tc.height, start, end, tc.start, tc.end)
		}
	}
}
