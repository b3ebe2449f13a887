package css_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"cssfmt/common"
	"cssfmt/css"
)

func TestInspect(t *testing.T) {
	input := []byte("a{color:red}\n.b, .c{margin:0;padding:0}\n/* c */\n#d{}")

	sum := css.NewInspector(zaptest.NewLogger(t)).Inspect(input)
	if sum.Bytes != len(input) {
		t.Errorf("Bytes = %d, want %d", sum.Bytes, len(input))
	}
	if sum.Rulesets != 3 {
		t.Errorf("Rulesets = %d, want 3", sum.Rulesets)
	}
	if sum.Declarations != 3 {
		t.Errorf("Declarations = %d, want 3", sum.Declarations)
	}
	if sum.AtRules != 0 {
		t.Errorf("AtRules = %d, want 0", sum.AtRules)
	}
}

func TestInspect_AtRules(t *testing.T) {
	sum := css.Inspect([]byte("@import url(a.css);\na{top:0}"))
	if sum.AtRules != 1 || sum.Rulesets != 1 {
		t.Errorf("got %+v, want 1 at-rule and 1 ruleset", sum)
	}
	if sum.Blocks() != 2 {
		t.Errorf("Blocks() = %d, want 2", sum.Blocks())
	}
}

func TestInspect_Empty(t *testing.T) {
	if sum := css.Inspect(nil); sum != (css.Summary{}) {
		t.Errorf("got %+v for empty input", sum)
	}
}

// Formatting balanced input must keep every top-level rule and every
// declaration.
func TestFormat_PreservesStructure(t *testing.T) {
	input := "a { color : red ; }\n.b, .c { margin : 0 ; padding : 32px }\n#d { }\n@import url(x.css);\ne{top:0;left:0;}"
	before := css.Inspect([]byte(input))

	for _, mode := range []common.OutputMode{common.OutputModeMultiLine, common.OutputModeSingleLine, common.OutputModeMinify} {
		opts := css.DefaultOptions()
		opts.OutputMode = mode
		opts.SortProperties = true

		out := css.Format(input, opts)
		after := css.Inspect([]byte(out))
		if after.Rulesets != before.Rulesets || after.AtRules != before.AtRules || after.Declarations != before.Declarations {
			t.Errorf("%s: structure changed\nbefore: %+v\n after: %+v\noutput: %q", mode, before, after, out)
		}
	}
}
