package display

import (
	"strings"
	"testing"
)

func TestNotesHTML(t *testing.T) {
	got, err := NotesHTML("**Dizinde** sakatlık\nhafif çalışsın")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<strong>Dizinde</strong>") {
		t.Errorf("missing emphasis: %q", got)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("hard wrap not rendered: %q", got)
	}
}

func TestNotesHTML_EscapesRawHTML(t *testing.T) {
	got, err := NotesHTML(`<script>alert(1)</script>`)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html passed through: %q", got)
	}
}

func TestNotesHTML_Blank(t *testing.T) {
	if got, err := NotesHTML("  \n"); err != nil || got != "" {
		t.Errorf("NotesHTML(blank) = %q, %v", got, err)
	}
}
