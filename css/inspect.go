package css

import (
	"bytes"
	"errors"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Inspector collects structural statistics of a stylesheet using full CSS
// tokenizer. It is used to report what formatting did and to check that
// formatting preserved structure.
type Inspector struct {
	log *zap.Logger
}

// NewInspector creates a new CSS inspector.
func NewInspector(log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{log: log.Named("css-inspector")}
}

// Inspect is a shortcut for inspection without logging.
func Inspect(data []byte) Summary {
	return NewInspector(nil).Inspect(data)
}

// Inspect counts top-level rules and at-rules, declarations and comments.
// Parsing errors stop counting, whatever was counted so far is returned.
func (in *Inspector) Inspect(data []byte) Summary {
	sum := Summary{Bytes: len(data)}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	depth := 0
	for {
		gt, _, _ := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				in.log.Debug("CSS parse error", zap.Error(err))
			}
			return sum

		case css.CommentGrammar:
			sum.Comments++

		case css.AtRuleGrammar:
			if depth == 0 {
				sum.AtRules++
			}

		case css.BeginAtRuleGrammar:
			if depth == 0 {
				sum.AtRules++
			}
			depth++

		case css.BeginRulesetGrammar:
			if depth == 0 {
				sum.Rulesets++
			}
			depth++

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth = max(depth-1, 0)

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			sum.Declarations++
		}
	}
}
