package display

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// notesRenderer leaves raw HTML escaped: notes are free text typed by staff.
var notesRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// NotesHTML renders member notes written in markdown.
// POST: Returns "" for blank notes
func NotesHTML(notes string) (string, error) {
	if strings.TrimSpace(notes) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(notes), &buf); err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}
	return buf.String(), nil
}
