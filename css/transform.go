package css

import (
	"regexp"
	"strings"

	"cssfmt/common"
)

// space matches the same characters as JavaScript \s, Go \s is ASCII only.
const space = `[\s\v\p{Z}\x{FEFF}]`

var (
	commentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)

	spaceRunPattern      = regexp.MustCompile(space + `+`)
	spaceBeforeParen     = regexp.MustCompile(`(?i)([a-z0-9_-])` + space + `+\(`)
	spaceAfterOpenParen  = regexp.MustCompile(`\(` + space + `+`)
	spaceBeforeCloseParn = regexp.MustCompile(space + `+\)`)
	spaceAfterCloseParen = regexp.MustCompile(`\)` + space + `+([;:,)}])`)

	symbolPattern = regexp.MustCompile(space + `*([{}:;,>~+()\[\]=])` + space + `*`)
	// characters which start class, id or identifier after attribute selector
	selectorStart = regexp.MustCompile(`^[.#a-zA-Z0-9_-]`)

	semicolonBeforeBrace = regexp.MustCompile(`;` + space + `*}`)
)

// StripComments removes all /* ... */ comments. Unterminated comment is left
// in place.
func StripComments(css string) string {
	return commentPattern.ReplaceAllString(css, "")
}

// CollapseWhitespace replaces every run of white space with single space and
// removes spaces around parentheses so functional values stay compact.
func CollapseWhitespace(css string) string {
	css = spaceRunPattern.ReplaceAllString(css, " ")
	css = spaceBeforeParen.ReplaceAllString(css, "${1}(")
	css = spaceAfterOpenParen.ReplaceAllString(css, "(")
	css = spaceBeforeCloseParn.ReplaceAllString(css, ")")
	css = spaceAfterCloseParen.ReplaceAllString(css, ")${1}")
	return css
}

// CollapseWhitespaceKeepComments works like CollapseWhitespace but leaves
// comments outside of any braces untouched. Comments inside rule bodies are
// collapsed together with the body.
func CollapseWhitespaceKeepComments(css string) string {
	var (
		out, buf strings.Builder
		depth    int
	)
	flush := func() {
		if buf.Len() > 0 {
			out.WriteString(CollapseWhitespace(buf.String()))
			buf.Reset()
		}
	}
	for i := 0; i < len(css); i++ {
		c := css[i]
		if c == '/' && i+1 < len(css) && css[i+1] == '*' {
			end := len(css)
			if pos := strings.Index(css[i+2:], "*/"); pos >= 0 {
				end = i + 2 + pos + 2
			}
			if depth == 0 {
				flush()
				out.WriteString(css[i:end])
			} else {
				buf.WriteString(css[i:end])
			}
			i = end - 1
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth = max(depth-1, 0)
		}
		buf.WriteByte(c)
	}
	flush()
	return out.String()
}

// Tightener removes white space around structural punctuation. Spacing
// selects how closing attribute bracket followed by a selector is treated.
type Tightener struct {
	Spacing common.AttrSpacing
}

// Tighten removes white space surrounding { } : ; , > ~ + ( ) [ ] =.
func (t Tightener) Tighten(css string) string {
	matches := symbolPattern.FindAllStringSubmatchIndex(css, -1)
	if len(matches) == 0 {
		return css
	}

	var b strings.Builder
	b.Grow(len(css))

	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		symbol := css[m[2]:m[3]]

		b.WriteString(css[last:start])
		b.WriteString(symbol)
		if symbol == "]" && t.keepSpace(end > m[3], css[end:]) {
			b.WriteByte(' ')
		}
		last = end
	}
	b.WriteString(css[last:])
	return b.String()
}

// keepSpace decides if single space must follow closing bracket, removing it
// would fuse attribute selector with following descendant selector.
func (t Tightener) keepSpace(hadSpace bool, rest string) bool {
	switch t.Spacing {
	case common.AttrSpacingSpaced:
		return hadSpace && selectorStart.MatchString(rest)
	case common.AttrSpacingAdjacent:
		return selectorStart.MatchString(rest)
	default:
		return false
	}
}

// TightenSymbols tightens using default (fuse) strategy.
func TightenSymbols(css string) string {
	return Tightener{}.Tighten(css)
}

// TrimSemicolonBeforeBrace removes last semicolon before closing brace.
func TrimSemicolonBeforeBrace(css string) string {
	return semicolonBeforeBrace.ReplaceAllString(css, "}")
}

var (
	attrDescendantSpaced = regexp.MustCompile(`(\[[^\]]+\])` + space + `+([.#][\w-]+)`)
	attrDescendant       = regexp.MustCompile(`(\[[^\]]+\])` + space + `*([.#][\w-]+)`)
)

// attrPairs records attribute selectors followed by white space and class or
// id selector in the original text.
func attrPairs(css string) map[string]struct{} {
	pairs := make(map[string]struct{})
	for _, m := range attrDescendantSpaced.FindAllStringSubmatch(css, -1) {
		pairs[m[1]+">>"+m[2]] = struct{}{}
	}
	return pairs
}

// restoreAttrSpacing puts single space back between attribute selector and
// following class or id selector for pairs which had it originally.
func restoreAttrSpacing(css string, pairs map[string]struct{}) string {
	if len(pairs) == 0 {
		return css
	}
	return attrDescendant.ReplaceAllStringFunc(css, func(match string) string {
		m := attrDescendant.FindStringSubmatch(match)
		if _, ok := pairs[m[1]+">>"+m[2]]; ok {
			return m[1] + " " + m[2]
		}
		return match
	})
}
