package report

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/nguyentantai21042004/synopsis-flow/internal/synopsis"
)

// strict strips every tag and escapes the rest. Model output is untrusted text.
var strict = bluemonday.StrictPolicy()

// RenderHTML renders the synopsis as a standalone HTML page.
func RenderHTML(res synopsis.Result) string {
	title := strict.Sanitize(res.Title)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n</head>\n<body>\n", title)
	fmt.Fprintf(&b, "<h1>%s</h1>\n<ul>\n", title)

	for _, line := range res.Lines() {
		text, tc := SplitTimecode(bulletText(line))
		text = strict.Sanitize(text)
		if tc == "" {
			fmt.Fprintf(&b, "<li>%s</li>\n", text)
			continue
		}
		fmt.Fprintf(&b, "<li>%s <b>%s</b></li>\n", text, tc)
	}

	b.WriteString("</ul>\n</body>\n</html>\n")
	return b.String()
}
