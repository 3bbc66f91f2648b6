package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestBar_Update(t *testing.T) {
	var buf bytes.Buffer
	bar := New(&buf, "Processing Video")

	bar.Update(0, 2)
	if got := buf.String(); !strings.Contains(got, "Processing Video") || !strings.Contains(got, "50%") {
		t.Errorf("unexpected first draw: %q", got)
	}
	if n := bar.bar.State().CurrentNum; n != 1 {
		t.Errorf("expected current 1, got %d", n)
	}

	bar.Update(1, 2)
	if got := buf.String(); !strings.Contains(got, "100%") || !strings.Contains(got, "2/2") {
		t.Errorf("unexpected final draw: %q", got)
	}

	bar.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("expected newline on finish, got %q", buf.String())
	}
	if bar.bar != nil {
		t.Error("expected bar to be released after finish")
	}
}

func TestBar_ClampsToTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := New(&buf, "p")

	bar.Update(9, 4)
	if n := bar.bar.State().CurrentNum; n != 4 {
		t.Errorf("expected current clamped to 4, got %d", n)
	}
}

func TestBar_Func(t *testing.T) {
	var buf bytes.Buffer
	progress := New(&buf, "p").Func()
	progress(3, 4)
	if !strings.Contains(buf.String(), "4/4") {
		t.Errorf("expected draw through ProgressFunc, got %q", buf.String())
	}
}

func TestBar_Disabled(t *testing.T) {
	var buf bytes.Buffer
	bar := New(&buf, "p")
	bar.enabled = false

	bar.Update(0, 10)
	bar.Finish()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestBar_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := New(&buf, "p")

	bar.Update(0, 0)
	bar.Finish()
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty plan, got %q", buf.String())
	}
}
