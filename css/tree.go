package css

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter accumulates indented lines.
type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() treeWriter {
	return treeWriter{w: &strings.Builder{}}
}

func (tw treeWriter) String() string {
	return tw.w.String()
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw treeWriter) text(depth int, label, value string) {
	tw.line(depth, "%s: %s", label, quote(value))
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

// DumpTree returns block structure of CSS text as seen by the formatter: top
// level blocks with their leading comments and declarations.
func DumpTree(src string) string {
	blocks := Blocks(src)

	tw := newTreeWriter()
	tw.line(0, "stylesheet: %d block(s)", len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case BlockRule:
			tw.text(1, b.Kind.String(), b.Selector)
			if !b.Closed {
				tw.line(2, "unterminated")
			}
		case BlockStray:
			tw.text(1, b.Kind.String(), b.Text)
		default:
			tw.line(1, "%s", b.Kind)
		}
		for _, c := range b.Comments {
			tw.text(2, "comment", c)
		}
		if b.Kind == BlockRule {
			for _, d := range SplitDeclarations(b.Body) {
				tw.text(2, "declaration", d)
			}
		}
	}
	return tw.String()
}
