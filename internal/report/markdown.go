package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
)

const (
	MarkdownFileName = "synopsis.md"
	HTMLFileName     = "synopsis.html"
	DocxFileName     = "synopsis.docx"
)

// RenderMarkdown renders the title as a heading and every point as a list item.
func RenderMarkdown(res synopsis.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", res.Title)
	for _, line := range res.Lines() {
		fmt.Fprintf(&b, "- %s\n", bulletText(line))
	}
	return b.String()
}

// Files are the synopsis documents written for one upload.
type Files struct {
	Markdown string
	HTML     string
	Docx     string
}

// WriteAll writes the markdown, HTML and docx renderings into dir.
func WriteAll(dir string, res synopsis.Result) (Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Files{}, fmt.Errorf("create report dir: %w", err)
	}

	files := Files{
		Markdown: filepath.Join(dir, MarkdownFileName),
		HTML:     filepath.Join(dir, HTMLFileName),
		Docx:     filepath.Join(dir, DocxFileName),
	}

	if err := os.WriteFile(files.Markdown, []byte(RenderMarkdown(res)), 0644); err != nil {
		return Files{}, fmt.Errorf("write markdown: %w", err)
	}
	if err := os.WriteFile(files.HTML, []byte(RenderHTML(res)), 0644); err != nil {
		return Files{}, fmt.Errorf("write html: %w", err)
	}
	if err := WriteSynopsisDocx(res, files.Docx); err != nil {
		return Files{}, err
	}
	return files, nil
}
