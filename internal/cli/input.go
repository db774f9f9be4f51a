package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/g6viz/pkg/graph6"
)

// input is a graph6 string together with where it came from.
type input struct {
	Text string
	Name string // file path, "stdin" or the literal text
	File bool   // whether Name is a file on disk
}

// readInput resolves a command argument to graph6 text. "-" reads stdin, an
// existing path is read as a graph6 file, and anything else is taken as
// graph6 text. index picks the entry (1-based) of a multi-graph file.
func readInput(arg string, stdin io.Reader, index int) (input, error) {
	if arg == "-" {
		text, err := pickEntry(stdin, "stdin", index)
		return input{Text: text, Name: "stdin"}, err
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		f, err := os.Open(arg)
		if err != nil {
			return input{}, err
		}
		defer f.Close()
		text, err := pickEntry(f, arg, index)
		return input{Text: text, Name: arg, File: true}, err
	}
	return input{Text: strings.TrimSpace(arg), Name: arg}, nil
}

func pickEntry(r io.Reader, name string, index int) (string, error) {
	entries, err := graph6.ReadLines(r)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%s: no graphs found", name)
	}
	if index < 1 || index > len(entries) {
		return "", fmt.Errorf("%s: index %d out of range (file has %d graphs)", name, index, len(entries))
	}
	return entries[index-1].Text, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from a file input, or uses
// "graph" for literal and stdin input. A known format extension on output
// is stripped as well.
func basePath(output string, in input) string {
	if output == "" {
		if in.File {
			return strings.TrimSuffix(in.Name, filepath.Ext(in.Name))
		}
		return "graph"
	}
	ext := filepath.Ext(output)
	if isFormatExt(ext) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
