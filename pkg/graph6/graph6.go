package graph6

import (
	"fmt"
	"strings"

	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/graph"
)

// Header is the optional prefix some tools write before graph6 data.
const Header = ">>graph6<<"

const (
	bias     = 63
	maxByte  = 126
	bitsPer  = 6
	smallMax = 62
	midMax   = 258047

	// maxDecodable keeps n*(n-1) within uint64. Any larger graph needs more
	// body bytes than fit in memory, so its text is necessarily truncated.
	maxDecodable = 1<<32 - 1
)

// DecodeError describes malformed graph6 text.
type DecodeError struct {
	Offset int    // Byte offset into the original text, or -1 when not attributable
	Reason string // What was wrong
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return "graph6: " + e.Reason
	}
	return fmt.Sprintf("graph6: %s at offset %d", e.Reason, e.Offset)
}

// Code returns the error code for this error type.
func (e *DecodeError) Code() errors.Code { return errors.ErrCodeInvalidGraph6 }

const whitespace = " \t\r\n"

// Decode parses graph6 text into a [graph.Graph]. Surrounding whitespace and
// an optional [Header] prefix are ignored; error offsets still count from the
// start of the original text. Vertices are numbered in the order of the
// graph6 scan.
func Decode(text string) (*graph.Graph, error) {
	trimmed := strings.TrimLeft(text, whitespace)
	base := len(text) - len(trimmed)
	text = strings.TrimRight(trimmed, whitespace)
	if strings.HasPrefix(text, Header) {
		base += len(Header)
		text = text[len(Header):]
	}
	if text == "" {
		return nil, &DecodeError{Offset: -1, Reason: "empty input"}
	}

	n, hdr, err := parseSize(text)
	if err != nil {
		err.Offset += base
		return nil, err
	}

	body := text[hdr:]
	if n > maxDecodable {
		return nil, &DecodeError{Offset: base + len(text), Reason: fmt.Sprintf("truncated body: %d vertices", n)}
	}
	for i := 0; i < len(body); i++ {
		if body[i] < bias || body[i] > maxByte {
			return nil, &DecodeError{
				Offset: base + hdr + i,
				Reason: fmt.Sprintf("byte %q outside graph6 range", body[i]),
			}
		}
	}

	want := bodyLen(n)
	switch {
	case len(body) < want:
		return nil, &DecodeError{
			Offset: base + len(text),
			Reason: fmt.Sprintf("truncated body: %d vertices need %d bytes, have %d", n, want, len(body)),
		}
	case len(body) > want:
		return nil, &DecodeError{
			Offset: base + hdr + want,
			Reason: fmt.Sprintf("trailing data: %d vertices need %d bytes, have %d", n, want, len(body)),
		}
	}

	bits := uint64(n) * uint64(n-1) / 2
	if pad := uint64(want)*bitsPer - bits; pad > 0 {
		last := body[want-1] - bias
		if last&(1<<pad-1) != 0 {
			return nil, &DecodeError{Offset: base + hdr + want - 1, Reason: "non-zero padding bits"}
		}
	}

	var edges []graph.Edge
	k := 0
	for v := 1; v < n; v++ {
		for u := 0; u < v; u++ {
			if (body[k/bitsPer]-bias)>>(bitsPer-1-k%bitsPer)&1 == 1 {
				edges = append(edges, graph.Edge{U: u, V: v})
			}
			k++
		}
	}
	return graph.New(n, edges)
}

// Encode returns the canonical graph6 text for g, without [Header].
func Encode(g *graph.Graph) string {
	n := g.VertexCount()
	var b strings.Builder
	b.Grow(Size(n))
	writeSize(&b, n)

	body := make([]byte, bodyLen(n))
	for u, v := range g.Edges() {
		k := graph.EdgeIndex(u, v)
		body[k/bitsPer] |= 1 << (bitsPer - 1 - k%bitsPer)
	}
	for _, c := range body {
		b.WriteByte(c + bias)
	}
	return b.String()
}

// Size returns the length in bytes of the canonical encoding of an n-vertex graph.
func Size(n int) int {
	return headerLen(n) + bodyLen(n)
}

// parseSize reads the N(n) header and returns n and the header length.
func parseSize(text string) (int, int, *DecodeError) {
	c := text[0]
	switch c {
	case ':':
		return 0, 0, &DecodeError{Offset: 0, Reason: "sparse6 input is not supported"}
	case '&':
		return 0, 0, &DecodeError{Offset: 0, Reason: "digraph6 input is not supported"}
	}
	if c < bias || c > maxByte {
		return 0, 0, &DecodeError{Offset: 0, Reason: fmt.Sprintf("byte %q outside graph6 range", c)}
	}
	if c != maxByte {
		return int(c - bias), 1, nil
	}

	width, start, lo := 3, 1, smallMax+1
	if len(text) > 1 && text[1] == maxByte {
		width, start, lo = 6, 2, midMax+1
	}
	if len(text) < start+width {
		return 0, 0, &DecodeError{Offset: len(text), Reason: "truncated size header"}
	}

	var n uint64
	for i := start; i < start+width; i++ {
		d := text[i]
		if d < bias || d > maxByte {
			return 0, 0, &DecodeError{Offset: i, Reason: fmt.Sprintf("byte %q outside graph6 range", d)}
		}
		n = n<<bitsPer | uint64(d-bias)
	}
	if n < uint64(lo) {
		return 0, 0, &DecodeError{Offset: 0, Reason: fmt.Sprintf("non-canonical size header for %d vertices", n)}
	}
	return int(n), start + width, nil
}

func writeSize(b *strings.Builder, n int) {
	var width int
	switch {
	case n <= smallMax:
		b.WriteByte(byte(n + bias))
		return
	case n <= midMax:
		b.WriteByte(maxByte)
		width = 3
	default:
		b.WriteString("~~")
		width = 6
	}
	for i := width - 1; i >= 0; i-- {
		b.WriteByte(byte(n>>(bitsPer*i))&0x3f + bias)
	}
}

func headerLen(n int) int {
	switch {
	case n <= smallMax:
		return 1
	case n <= midMax:
		return 4
	default:
		return 8
	}
}

func bodyLen(n int) int {
	if n < 2 {
		return 0
	}
	bits := uint64(n) * uint64(n-1) / 2
	return int((bits + bitsPer - 1) / bitsPer)
}
