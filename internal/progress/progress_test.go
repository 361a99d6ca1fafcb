package progress

import (
	"bytes"
	"strings"
	"testing"
)

// TestBarUpdate tests status line rendering.
func TestBarUpdate(t *testing.T) {
	t.Parallel()

	t.Run("renders position over total", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := New(WithOutput(&buf))
		b.Update(1, 3)
		b.Update(2, 3)

		out := buf.String()
		if !strings.Contains(out, "[1/3]") || !strings.Contains(out, "[2/3]") {
			t.Errorf("expected both updates in output, got %q", out)
		}
	})

	t.Run("rewrites the same line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := New(WithOutput(&buf))
		b.Update(1, 2)
		b.Update(2, 2)

		if !strings.HasPrefix(buf.String(), "\r") {
			t.Error("expected carriage-return line rewriting")
		}
		if strings.Contains(buf.String(), "\n") {
			t.Error("expected no newline before Finish")
		}
	})

	t.Run("disabled bar stays silent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := &Bar{output: &buf, enabled: false}
		b.Update(1, 1)
		b.Finish()

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}

// TestBarFinish tests line termination.
func TestBarFinish(t *testing.T) {
	t.Parallel()

	t.Run("terminates a started line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := New(WithOutput(&buf))
		b.Update(1, 1)
		b.Finish()

		if !strings.HasSuffix(buf.String(), "\n") {
			t.Error("expected trailing newline after Finish")
		}
	})

	t.Run("no-op when nothing was rendered", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		b := New(WithOutput(&buf))
		b.Finish()

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
