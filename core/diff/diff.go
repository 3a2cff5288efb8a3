// Package diff renders line diffs of rewritten files for preview runs.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

type Line struct {
	Type    LineType
	Content string
}

// Lines computes a line-level diff between two texts.
func Lines(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	var table []string
	index := make(map[string]rune)
	a := encodeLines(oldText, index, &table)
	b := encodeLines(newText, index, &table)
	diffs := dmp.DiffMainRunes(a, b, false)

	var lines []Line
	for _, d := range diffs {
		typ := LineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = LineAdded
		case diffmatchpatch.DiffDelete:
			typ = LineRemoved
		}
		for _, r := range d.Text {
			content := strings.TrimSuffix(table[decodeRune(r)], "\n")
			lines = append(lines, Line{Type: typ, Content: content})
		}
	}
	return lines
}

// encodeLines maps every line of text to a single rune so the diff runs
// over whole lines. DiffLinesToChars encodes indices as comma-separated
// digits, which the character diff then splits apart.
func encodeLines(text string, index map[string]rune, table *[]string) []rune {
	var out []rune
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		r, ok := index[line]
		if !ok {
			r = encodeRune(len(*table))
			index[line] = r
			*table = append(*table, line)
		}
		out = append(out, r)
	}
	return out
}

// Runes skip the surrogate range, which does not survive a round trip
// through string.
const surrogateStart, surrogateLen = 0xD800, 0x800

func encodeRune(i int) rune {
	r := rune(i + 1)
	if r >= surrogateStart {
		r += surrogateLen
	}
	return r
}

func decodeRune(r rune) int {
	if r >= surrogateStart+surrogateLen {
		r -= surrogateLen
	}
	return int(r) - 1
}

// Render formats the changed lines of name with one line of context around
// each change. Unchanged stretches are collapsed to "@@".
func Render(name, oldText, newText string) string {
	lines := Lines(oldText, newText)

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Type == LineContext {
			continue
		}
		for j := i - 1; j <= i+1; j++ {
			if j >= 0 && j < len(lines) {
				keep[j] = true
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	gap := true
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			sb.WriteString("@@\n")
			gap = false
		}
		switch l.Type {
		case LineAdded:
			sb.WriteString("+" + l.Content + "\n")
		case LineRemoved:
			sb.WriteString("-" + l.Content + "\n")
		default:
			sb.WriteString(" " + l.Content + "\n")
		}
	}
	return sb.String()
}
