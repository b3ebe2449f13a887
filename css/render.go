package css

import (
	"slices"
	"strings"

	"cssfmt/common"
)

const indent = "  "

// joinDeclarations renders declaration list according to output mode. Every
// declaration gets semicolon except the last one when trimming requested.
func joinDeclarations(decls []string, opts Options) string {
	if len(decls) == 0 {
		return ""
	}

	terminate := func(i int, d string) string {
		if opts.TrimSemicolon && i == len(decls)-1 {
			return d
		}
		return d + ";"
	}

	var b strings.Builder
	switch opts.OutputMode {
	case common.OutputModeMultiLine:
		for i, d := range decls {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(indent)
			b.WriteString(terminate(i, d))
		}
	default:
		sep := " "
		if opts.OutputMode == common.OutputModeMinify {
			sep = ""
		}
		for i, d := range decls {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(terminate(i, d))
		}
	}
	return b.String()
}

// renderRule assembles selector and declarations into a block.
func renderRule(selector string, decls []string, opts Options) string {
	body := joinDeclarations(decls, opts)
	if trim(body) == "" {
		if opts.collapse() {
			return selector + "{}"
		}
		return selector + " { }"
	}

	braceSpace := " "
	if opts.tighten() {
		braceSpace = ""
	}

	switch opts.OutputMode {
	case common.OutputModeMultiLine:
		return selector + braceSpace + "{\n" + body + "\n}"
	case common.OutputModeSingleLine:
		inner := " "
		if opts.tighten() {
			inner = ""
		}
		return selector + braceSpace + "{" + inner + body + inner + "}"
	default:
		return selector + "{" + body + "}"
	}
}

// renderStray passes text through, unmatched closing brace which ended it is
// put back.
func renderStray(b Block, opts Options) string {
	if !b.Closed {
		return b.Text
	}
	if opts.collapse() {
		return b.Text + "}"
	}
	return b.Text + " }"
}

// withComments puts leading comments on their own lines before rendered
// block.
func withComments(comments []string, rendered string) string {
	lines := slices.Clone(comments)
	if rendered != "" {
		lines = append(lines, rendered)
	}
	return strings.Join(lines, "\n")
}

// singleLinePass trims every line and drops empty ones.
func singleLinePass(css string) string {
	lines := strings.Split(css, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = trim(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
