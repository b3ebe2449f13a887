package css

import (
	"cssfmt/common"
)

// Options controls every stage of the formatting pipeline. It is a plain
// value, Format never modifies it.
type Options struct {
	RemoveComments     bool
	CollapseWhitespace bool
	TightenSymbols     bool
	TrimSemicolon      bool
	OutputMode         common.OutputMode
	SortProperties     bool
	SortPreset         common.SortPreset
	UnitMode           common.UnitMode
	// PxBase and RemBase must be >= 1, use Clamp when values come from
	// untrusted source.
	PxBase      float64
	RemBase     float64
	AttrSpacing common.AttrSpacing
	// CustomGroups are used only by common.SortPresetCustom.
	CustomGroups []PropertyGroup
}

// DefaultOptions returns the option set program starts with.
func DefaultOptions() Options {
	return Options{
		RemoveComments:     true,
		CollapseWhitespace: true,
		TightenSymbols:     true,
		TrimSemicolon:      true,
		OutputMode:         common.OutputModeMultiLine,
		SortProperties:     false,
		SortPreset:         common.SortPresetConcentric,
		UnitMode:           common.UnitModeNone,
		PxBase:             16,
		RemBase:            16,
		AttrSpacing:        common.AttrSpacingFuse,
	}
}

// Clamp returns a copy of options with conversion bases forced to be at
// least 1.
func (o Options) Clamp() Options {
	o.PxBase = max(o.PxBase, 1)
	o.RemBase = max(o.RemBase, 1)
	return o
}

// collapse reports whether whitespace collapsing is in effect, minify forces
// it regardless of the toggle.
func (o Options) collapse() bool {
	return o.CollapseWhitespace || o.OutputMode == common.OutputModeMinify
}

// tighten reports whether symbol tightening is in effect, minify forces it
// regardless of the toggle.
func (o Options) tighten() bool {
	return o.TightenSymbols || o.OutputMode == common.OutputModeMinify
}

// OptionsUpdate is a partial change to Options. Only non-nil fields are
// applied.
type OptionsUpdate struct {
	RemoveComments     *bool
	CollapseWhitespace *bool
	TightenSymbols     *bool
	TrimSemicolon      *bool
	OutputMode         *common.OutputMode
	SortProperties     *bool
	SortPreset         *common.SortPreset
	UnitMode           *common.UnitMode
	PxBase             *float64
	RemBase            *float64
	AttrSpacing        *common.AttrSpacing
}

// IsEmpty returns true if update would not change anything.
func (u OptionsUpdate) IsEmpty() bool {
	return u == (OptionsUpdate{})
}

// With returns new Options with fields from update superimposed on o.
func (o Options) With(u OptionsUpdate) Options {
	set(&o.RemoveComments, u.RemoveComments)
	set(&o.CollapseWhitespace, u.CollapseWhitespace)
	set(&o.TightenSymbols, u.TightenSymbols)
	set(&o.TrimSemicolon, u.TrimSemicolon)
	set(&o.OutputMode, u.OutputMode)
	set(&o.SortProperties, u.SortProperties)
	set(&o.SortPreset, u.SortPreset)
	set(&o.UnitMode, u.UnitMode)
	set(&o.PxBase, u.PxBase)
	set(&o.RemBase, u.RemBase)
	set(&o.AttrSpacing, u.AttrSpacing)
	if len(o.CustomGroups) > 0 {
		// do not share backing array with the original value
		o.CustomGroups = append([]PropertyGroup(nil), o.CustomGroups...)
	}
	return o
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
