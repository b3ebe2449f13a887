package css

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap/zapcore"
)

// BlockKind tells how a top-level chunk of source text is rendered.
type BlockKind int

const (
	BlockRule     BlockKind = iota // selector { declarations }
	BlockComments                  // only comments
	BlockStray                     // text without any opening brace
)

// String returns the name of the block kind for logging.
func (k BlockKind) String() string {
	switch k {
	case BlockRule:
		return "rule"
	case BlockComments:
		return "comments"
	case BlockStray:
		return "stray"
	default:
		return "unknown"
	}
}

// Block is a single top-level unit of CSS text. It is transient: created by
// splitting and consumed by rendering within one Format call.
type Block struct {
	Kind     BlockKind
	Comments []string // Leading comments, verbatim
	Selector string   // Selector or at-rule prelude (BlockRule)
	Body     string   // Text between the braces (BlockRule)
	Text     string   // Passthrough text (BlockStray)
	Closed   bool     // Source text was terminated by a closing brace
}

// PropertyPattern matches a property name either literally (exact name or
// "name-" prefix) or by regular expression.
type PropertyPattern struct {
	literal string
	re      *regexp.Regexp
}

// Literal creates pattern matching property name exactly or any property
// starting with name followed by dash.
func Literal(name string) PropertyPattern {
	return PropertyPattern{literal: strings.ToLower(name)}
}

// Regexp creates pattern matching property names by regular expression.
func Regexp(re *regexp.Regexp) PropertyPattern {
	return PropertyPattern{re: re}
}

// ParsePattern converts textual pattern to PropertyPattern. Text enclosed in
// slashes is compiled as regular expression, anything else is a literal.
func ParsePattern(s string) (PropertyPattern, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return PropertyPattern{}, fmt.Errorf("bad property pattern %q: %w", s, err)
		}
		return Regexp(re), nil
	}
	if s == "" {
		return PropertyPattern{}, errors.New("empty property pattern")
	}
	return Literal(s), nil
}

// String returns pattern text, regular expressions are written as /expr/.
func (p PropertyPattern) String() string {
	if p.re != nil {
		return "/" + p.re.String() + "/"
	}
	return p.literal
}

// Match specificity, higher is more specific.
const (
	matchNone   = 0
	matchPrefix = 1
	matchRegexp = 2
	matchExact  = 3
)

// match returns specificity of the pattern for already normalized property
// name, matchNone when pattern does not apply.
func (p PropertyPattern) match(property string) int {
	switch {
	case p.re != nil:
		if p.re.MatchString(property) {
			return matchRegexp
		}
	case property == p.literal:
		return matchExact
	case strings.HasPrefix(property, p.literal+"-"):
		return matchPrefix
	}
	return matchNone
}

// PropertyGroup is a named ordered list of patterns. Position of the group in
// a table and position of the pattern in a group define sort order.
type PropertyGroup struct {
	Name     string
	Patterns []PropertyPattern
}

// Summary holds structural counts of a stylesheet.
type Summary struct {
	Bytes        int // Input size
	Rulesets     int // Top-level qualified rules
	AtRules      int // Top-level at-rules, with or without block
	Declarations int // Declarations at any depth
	Comments     int // Comments reported by the tokenizer
}

// Blocks returns number of top-level units which produce braces on output.
func (s Summary) Blocks() int {
	return s.Rulesets + s.AtRules
}

func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("bytes", s.Bytes)
	enc.AddInt("rulesets", s.Rulesets)
	enc.AddInt("at-rules", s.AtRules)
	enc.AddInt("declarations", s.Declarations)
	enc.AddInt("comments", s.Comments)
	return nil
}

// isSpace reports JavaScript white space: Go set plus BOM, without NEL.
func isSpace(r rune) bool {
	return (unicode.IsSpace(r) && r != '\u0085') || r == '\uFEFF'
}

// trim removes leading and trailing white space the same way JavaScript
// String.prototype.trim does.
func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}
