package email

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer escapes raw HTML in its input; WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Receipt is the content of a payment receipt message.
type Receipt struct {
	StudioName string
	MemberName string
	Amount     string // already formatted for display
	Date       string // already formatted for display
	Package    string
}

// RenderReceipt builds the subject and HTML body of a receipt.
func RenderReceipt(r Receipt) (subject, html string, err error) {
	studio := r.StudioName
	if studio == "" {
		studio = "Studio"
	}
	subject = fmt.Sprintf("%s payment receipt %s", studio, r.Date)

	var md strings.Builder
	fmt.Fprintf(&md, "Hello %s,\n\n", escapeMarkdown(r.MemberName))
	fmt.Fprintf(&md, "We received your payment of **%s** on %s.\n", escapeMarkdown(r.Amount), escapeMarkdown(r.Date))
	if r.Package != "" {
		fmt.Fprintf(&md, "\nPackage: *%s*\n", escapeMarkdown(r.Package))
	}
	fmt.Fprintf(&md, "\nThank you,\n%s\n", escapeMarkdown(studio))

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md.String()), &buf); err != nil {
		return "", "", fmt.Errorf("render receipt: %w", err)
	}
	return subject, buf.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`, `#`, `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
