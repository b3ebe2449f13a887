// Enums live in a separate package because both configuration and the
// formatter core need them and I do not want css package to depend on config.
package common

// Layout of the formatted output.
// ENUM(multi-line, single-line, minify)
type OutputMode int

// Joiner returns the separator placed between rendered top-level blocks.
func (m OutputMode) Joiner() string {
	if m == OutputModeMinify {
		return ""
	}
	return "\n"
}

// Declaration ordering preset.
// ENUM(none, concentric, category, alphabetical, custom)
type SortPreset int

// Numeric unit conversion applied before formatting.
// ENUM(none, px2rem, rem2px)
type UnitMode int

// How symbol tightening treats whitespace between closing attribute bracket
// and following class, id or identifier.
// ENUM(fuse, spaced, adjacent)
type AttrSpacing int
