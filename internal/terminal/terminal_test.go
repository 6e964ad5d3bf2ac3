package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
)

func newTestDisplay(buf *bytes.Buffer, opts ...Option) *Display {
	opts = append([]Option{WithProfile(termenv.Ascii)}, opts...)
	d := New(buf, opts...)
	d.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestReplace_WritesHeaderAndEntries(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf, WithTitle("Repo Activity"))

	err := d.Replace([]string{
		`"alice" pushed to "main" on Mon, 01 Jan 2024 00:00:00 UTC`,
		`Unknown event by "carol" on Invalid Date`,
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	want := "Repo Activity\n" +
		"2 events · updated 12:00:00 UTC\n\n" +
		`"alice" pushed to "main" on Mon, 01 Jan 2024 00:00:00 UTC` + "\n" +
		`Unknown event by "carol" on Invalid Date` + "\n"
	if buf.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestReplace_ListLayout(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf, WithListLayout(true))

	if err := d.Replace([]string{"Deploy finished — v1.2.3"}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if !strings.Contains(buf.String(), "• Deploy finished — v1.2.3\n") {
		t.Errorf("expected bullet entry, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "1 event ·") {
		t.Errorf("expected singular count, got: %q", buf.String())
	}
}

func TestReplace_DefaultTitle(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf, WithTitle(""))

	_ = d.Replace(nil)

	if !strings.HasPrefix(buf.String(), "Repository Events\n") {
		t.Errorf("expected default title, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "0 events") {
		t.Errorf("expected empty count, got: %q", buf.String())
	}
}

func TestReplace_NeutralisesControlCharacters(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf)

	_ = d.Replace([]string{"evil\x1b[2Jentry\r"})

	if strings.Contains(buf.String(), "\x1b") || strings.Contains(buf.String(), "\r") {
		t.Errorf("control characters leaked: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "evil [2Jentry ") {
		t.Errorf("expected sanitised entry, got: %q", buf.String())
	}
}

func TestReplace_ClearScreen(t *testing.T) {
	var buf bytes.Buffer
	d := newTestDisplay(&buf, WithClearScreen(true))

	_ = d.Replace([]string{"a"})

	if !strings.HasPrefix(buf.String(), "\x1b[") {
		t.Errorf("expected clear-screen sequence first, got: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestReplace_WriteError(t *testing.T) {
	d := New(failingWriter{}, WithProfile(termenv.Ascii))

	if err := d.Replace([]string{"a"}); err == nil {
		t.Error("Replace() expected error from writer, got nil")
	}
}
