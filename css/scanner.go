package css

import (
	"strings"
)

type scanMode int

const (
	modeNormal scanMode = iota
	modeString
	modeComment
)

// structural calls fn for every byte of src which is outside of quoted
// strings and comments, backslash escaped characters are skipped as well.
// Walk stops when fn returns false. Unterminated strings and comments extend
// to the end of input.
//
// All characters we care about are ASCII, so walking bytes is safe for UTF-8.
func structural(src string, fn func(i int, c byte) bool) {
	var (
		mode  = modeNormal
		quote byte
	)
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch mode {
		case modeComment:
			if c == '*' && i+1 < len(src) && src[i+1] == '/' {
				mode = modeNormal
				i++
			}
		case modeString:
			switch c {
			case '\\':
				i++
			case quote:
				mode = modeNormal
			}
		default:
			switch {
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				mode = modeComment
				i++
			case c == '\\':
				i++
			case c == '"' || c == '\'':
				mode, quote = modeString, c
			default:
				if !fn(i, c) {
					return
				}
			}
		}
	}
}

type rawBlock struct {
	text   string
	closed bool
}

// splitBlocks breaks text into top-level chunks. Chunk ends when brace depth
// returns to zero right after closing brace, the brace itself is dropped.
// Unmatched closing brace also ends current chunk, depth never goes below
// zero.
func splitBlocks(src string) []rawBlock {
	var (
		blocks       []rawBlock
		depth, start int
	)
	structural(src, func(i int, c byte) bool {
		switch c {
		case '{':
			depth++
		case '}':
			depth = max(depth-1, 0)
			if depth == 0 {
				if text := trim(src[start:i]); text != "" {
					blocks = append(blocks, rawBlock{text: text, closed: true})
				}
				start = i + 1
			}
		}
		return true
	})
	if text := trim(src[start:]); text != "" {
		blocks = append(blocks, rawBlock{text: text})
	}
	return blocks
}

// SplitBlocks returns top-level blocks of CSS text in source order, closing
// braces are not included.
func SplitBlocks(src string) []string {
	raw := splitBlocks(src)
	blocks := make([]string, 0, len(raw))
	for _, b := range raw {
		blocks = append(blocks, b.text)
	}
	return blocks
}

// SplitDeclarations breaks block body into declarations. Semicolon separates
// declarations only outside of strings, comments, parentheses, brackets and
// nested braces, so data URIs, functional values and nested rules stay
// intact. Result has no empty entries and no trailing semicolons.
func SplitDeclarations(body string) []string {
	var (
		decls                 []string
		curly, paren, bracket int
		start                 int
	)
	push := func(s string) {
		if s = trim(s); s != "" {
			decls = append(decls, s)
		}
	}
	structural(body, func(i int, c byte) bool {
		switch c {
		case '{':
			curly++
		case '}':
			curly = max(curly-1, 0)
		case '(':
			paren++
		case ')':
			paren = max(paren-1, 0)
		case '[':
			bracket++
		case ']':
			bracket = max(bracket-1, 0)
		case ';':
			if curly == 0 && paren == 0 && bracket == 0 {
				push(body[start:i])
				start = i + 1
			}
		}
		return true
	})
	push(body[start:])
	return decls
}

// ExtractLeadingComments removes complete comments (and white space around
// them) from the beginning of text. Comments are returned verbatim.
func ExtractLeadingComments(text string) ([]string, string) {
	var comments []string
	rest := text
	for {
		t := strings.TrimLeftFunc(rest, isSpace)
		if !strings.HasPrefix(t, "/*") {
			break
		}
		end := strings.Index(t[2:], "*/")
		if end < 0 {
			// unterminated comment stays with the remainder
			break
		}
		end += 4
		comments = append(comments, t[:end])
		rest = strings.TrimLeftFunc(t[end:], isSpace)
	}
	return comments, rest
}

// openingBrace returns index of the first opening brace outside of strings
// and comments or -1.
func openingBrace(s string) int {
	pos := -1
	structural(s, func(i int, c byte) bool {
		if c == '{' {
			pos = i
			return false
		}
		return true
	})
	return pos
}

// ParseBlock classifies raw top-level text produced by SplitBlocks.
func ParseBlock(text string) Block {
	return parseBlock(rawBlock{text: text})
}

func parseBlock(raw rawBlock) Block {
	comments, rest := ExtractLeadingComments(raw.text)
	b := Block{Comments: comments, Closed: raw.closed}
	if rest == "" {
		b.Kind = BlockComments
		return b
	}
	pos := openingBrace(rest)
	if pos < 0 {
		b.Kind = BlockStray
		b.Text = trim(rest)
		return b
	}
	b.Kind = BlockRule
	b.Selector = trim(rest[:pos])
	b.Body = trim(rest[pos+1:])
	return b
}

// Blocks splits CSS text into classified top-level blocks.
func Blocks(src string) []Block {
	raw := splitBlocks(src)
	blocks := make([]Block, 0, len(raw))
	for _, r := range raw {
		blocks = append(blocks, parseBlock(r))
	}
	return blocks
}
