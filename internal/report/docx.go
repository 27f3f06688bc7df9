package report

import (
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
	"github.com/nguyentantai21042004/synopsis-flow/internal/transcript"
)

const (
	fontName   = "Times New Roman"
	fontSize   = 13
	titleSize  = 16
	textColor  = "000000"
	mutedColor = "666666"
)

// WriteSynopsisDocx writes the synopsis as a document: the title, then one
// bullet paragraph per point with its timecode in bold.
func WriteSynopsisDocx(res synopsis.Result, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), res.Title, true, titleSize)

	for _, line := range res.Lines() {
		text, tc := SplitTimecode(bulletText(line))
		p := doc.AddParagraph("")
		p.AddText("• " + cleanMarkdownInline(text)).Font(fontName).Size(fontSize).Color(textColor)
		if tc != "" {
			p.AddText(" " + tc).Font(fontName).Size(fontSize).Color(textColor).Bold(true)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save synopsis docx: %w", err)
	}
	return nil
}

// WriteTranscriptDocx writes the transcript with one paragraph per segment,
// each led by its start time. Consecutive repeats of the same text, a common
// recognition artifact, are kept only once.
func WriteTranscriptDocx(title string, segments []transcript.Segment, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	prev := ""
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || text == prev {
			continue
		}
		prev = text

		p := doc.AddParagraph("")
		p.AddText(shortTimecode(seg.Start) + "  ").Font(fontName).Size(fontSize).Color(mutedColor)
		p.AddText(text).Font(fontName).Size(fontSize).Color(textColor)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save transcript docx: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color(textColor)
	if bold {
		run.Bold(true)
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

// shortTimecode is HH:MM:SS without milliseconds.
func shortTimecode(seconds float64) string {
	tc := transcript.FormatTimecode(seconds)
	return tc[:strings.IndexByte(tc, ',')]
}
