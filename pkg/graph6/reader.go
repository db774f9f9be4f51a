package graph6

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/g6viz/pkg/graph"
)

// maxLineBytes bounds a single line read by [DecodeAll] and [ReadLines].
const maxLineBytes = 64 << 20

// Entry is one non-blank line of a multi-graph file.
type Entry struct {
	Line int    // 1-based line number
	Text string // graph6 text with surrounding whitespace removed
}

// ReadLines returns the non-blank lines of a graph6 file without decoding them.
func ReadLines(r io.Reader) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	var out []Entry
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		out = append(out, Entry{Line: line, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read graph6 lines: %w", err)
	}
	return out, nil
}

// DecodeAll decodes a file holding one graph6 string per line. Blank lines
// are skipped. The first malformed line aborts decoding; its error keeps the
// underlying [*DecodeError] reachable through errors.As.
func DecodeAll(r io.Reader) ([]*graph.Graph, error) {
	entries, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	out := make([]*graph.Graph, 0, len(entries))
	for _, e := range entries {
		g, err := Decode(e.Text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", e.Line, err)
		}
		out = append(out, g)
	}
	return out, nil
}
