package css

import (
	"strings"

	"go.uber.org/zap"

	"cssfmt/common"
)

// Formatter runs CSS text through the formatting pipeline. It keeps no state
// between calls and could be used concurrently.
type Formatter struct {
	log *zap.Logger
}

// NewFormatter creates a new CSS formatter.
func NewFormatter(log *zap.Logger) *Formatter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Formatter{log: log.Named("css-formatter")}
}

var nopFormatter = NewFormatter(nil)

// Format is a shortcut for formatting without logging.
func Format(input string, opts Options) string {
	return nopFormatter.Format(input, opts)
}

type stage struct {
	name string
	fn   func(string) string
}

// stages returns textual transforms requested by options in the order they
// have to be applied.
func stages(opts Options) []stage {
	var list []stage
	if opts.RemoveComments {
		list = append(list, stage{"strip-comments", StripComments})
	}
	switch opts.UnitMode {
	case common.UnitModePx2rem:
		list = append(list, stage{"px-to-rem", func(s string) string { return PxToRem(s, opts.PxBase) }})
	case common.UnitModeRem2px:
		list = append(list, stage{"rem-to-px", func(s string) string { return RemToPx(s, opts.RemBase) }})
	}
	if opts.collapse() {
		if opts.RemoveComments {
			list = append(list, stage{"collapse-whitespace", CollapseWhitespace})
		} else {
			list = append(list, stage{"collapse-whitespace-keep-comments", CollapseWhitespaceKeepComments})
		}
	}
	if opts.tighten() {
		list = append(list, stage{"tighten-symbols", Tightener{Spacing: opts.AttrSpacing}.Tighten})
	}
	if opts.TrimSemicolon {
		list = append(list, stage{"trim-semicolon", TrimSemicolonBeforeBrace})
	}
	return list
}

// Format returns reformatted CSS. Empty or white space only input produces
// empty string. Malformed input is handled on best effort basis, Format never
// fails.
func (f *Formatter) Format(input string, opts Options) string {
	css := trim(input)
	if css == "" {
		return ""
	}

	// Remember which attribute selectors were separated from following
	// class or id, collapsing may glue them together. Tightening removes
	// such spacing on purpose.
	var pairs map[string]struct{}
	if !opts.tighten() {
		pairs = attrPairs(input)
	}

	for _, s := range stages(opts) {
		css = s.fn(css)
		if ce := f.log.Check(zap.DebugLevel, "Stage applied"); ce != nil {
			ce.Write(zap.String("stage", s.name), zap.Int("bytes", len(css)))
		}
	}

	var sorter Sorter = identitySorter{}
	if opts.SortProperties {
		sorter = SorterFor(opts.SortPreset, opts.CustomGroups)
	}

	blocks := Blocks(css)
	rendered := make([]string, 0, len(blocks))
	for _, b := range blocks {
		rendered = append(rendered, renderBlock(b, sorter, opts))
	}
	f.log.Debug("Blocks rendered", zap.Int("blocks", len(blocks)), zap.Stringer("mode", opts.OutputMode))

	out := trim(strings.Join(rendered, opts.OutputMode.Joiner()))
	if !opts.tighten() {
		out = restoreAttrSpacing(out, pairs)
	}
	if opts.OutputMode == common.OutputModeSingleLine {
		out = singleLinePass(out)
	}
	return out
}

func renderBlock(b Block, sorter Sorter, opts Options) string {
	switch b.Kind {
	case BlockComments:
		return withComments(b.Comments, "")
	case BlockStray:
		return withComments(b.Comments, renderStray(b, opts))
	default:
		decls := sorter.Sort(SplitDeclarations(b.Body))
		return withComments(b.Comments, renderRule(b.Selector, decls, opts))
	}
}
