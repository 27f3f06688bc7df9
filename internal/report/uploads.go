package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/synopsis-flow/internal/uploads"
)

// FormatUploads lists a user's uploads one per line: the video ID, the link
// or file name, and the language.
func FormatUploads(records []uploads.Record) string {
	if len(records) == 0 {
		return "No uploads yet.\n"
	}

	var b strings.Builder
	for _, r := range records {
		lang := r.Language
		if lang == "" {
			lang = "auto"
		}
		source := r.VideoLink
		if source == "" {
			source = filepath.Base(r.FilePath)
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", r.VideoID, source, lang)
	}
	return b.String()
}
