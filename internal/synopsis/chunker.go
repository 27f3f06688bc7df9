package synopsis

import "strings"

// Chunk is a run of consecutive transcript lines sent to the model in one call.
type Chunk struct {
	Index int
	Lines []string
	// Text is the prefix followed by Lines joined with line breaks.
	Text string
}

// Split partitions text into chunks whose estimated cost stays below budget.
// Boundaries only fall between lines. A line that alone exceeds the budget
// becomes its own oversized chunk; nothing is dropped or cut. Blank lines are
// skipped, so whitespace-only input yields no chunks.
func Split(text string, budget float64, prefix string) []Chunk {
	var (
		chunks  []Chunk
		current strings.Builder
		lines   []string
	)

	flush := func() {
		if len(lines) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Lines: lines,
			Text:  current.String(),
		})
		lines = nil
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if len(lines) > 0 && EstimateCost(current.String()+"\n"+line) >= budget {
			flush()
		}

		if len(lines) == 0 {
			current.WriteString(prefix)
		} else {
			current.WriteString("\n")
		}
		current.WriteString(line)
		lines = append(lines, line)
	}
	flush()

	return chunks
}
