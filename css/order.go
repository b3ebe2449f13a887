package css

// Property order tables. Each group is a category, order of groups and order
// of patterns inside a group define resulting declaration order. Literal
// pattern matches exact property name and all its "name-*" longhands.

func group(name string, patterns ...string) PropertyGroup {
	g := PropertyGroup{Name: name, Patterns: make([]PropertyPattern, 0, len(patterns))}
	for _, p := range patterns {
		g.Patterns = append(g.Patterns, Literal(p))
	}
	return g
}

// ConcentricGroups orders properties from outside of the box to inside,
// inspired by Concentric CSS and Rhodes Mill ordering.
var ConcentricGroups = []PropertyGroup{
	group("layout-position",
		"display",
		"contain",
		"contain-intrinsic-size",
		"position",
		"inset",
		"inset-block",
		"inset-inline",
		"top",
		"right",
		"bottom",
		"left",
		"float",
		"clear",
		"isolation",
		"z-index",
		"flex-direction",
		"flex-wrap",
		"flex-flow",
		"flex",
		"flex-grow",
		"flex-shrink",
		"flex-basis",
		"justify",
		"align",
		"place",
		"order",
		"grid-template",
		"grid-auto",
		"grid",
		"grid-row",
		"grid-column",
		"gap",
		"row-gap",
		"column-gap",
		"columns",
		"column",
	),
	group("visibility-layer",
		"visibility",
		"opacity",
		"z-index",
	),
	group("box-layer",
		"margin",
		"outline",
		"border",
		"background",
		"padding",
	),
	group("sizing-overflow",
		"box-sizing",
		"width",
		"min-width",
		"max-width",
		"inline-size",
		"min-inline-size",
		"max-inline-size",
		"height",
		"min-height",
		"max-height",
		"block-size",
		"min-block-size",
		"max-block-size",
		"aspect-ratio",
		"object-fit",
		"object-position",
		"overflow",
		"overscroll",
		"scroll-behavior",
		"scroll-snap",
		"scroll-margin",
		"scroll-padding",
		"scrollbar",
	),
	group("typography",
		"font",
		"line-height",
		"line-clamp",
		"letter-spacing",
		"word",
		"text",
		"writing",
		"white-space",
		"tab-size",
		"hyphen",
		"hyphenate",
		"quotes",
		"list-style",
		"accent-color",
		"color",
		"caret",
		"vertical-align",
	),
	group("visual-interaction",
		"box-decoration",
		"box-shadow",
		"filter",
		"backdrop-filter",
		"mix-blend-mode",
		"background-blend-mode",
		"mask",
		"clip",
		"shape",
		"image",
		"fill",
		"stroke",
		"transform",
		"perspective",
		"backface-visibility",
		"transition",
		"animation",
		"cursor",
		"pointer",
		"user-select",
		"touch-action",
		"will-change",
		"appearance",
		"zoom",
		"resize",
		"content",
	),
}

// CategoryGroups is flatter alternative: positioning, display and box,
// border and background, typography, interaction, everything else.
var CategoryGroups = []PropertyGroup{
	group("positioning",
		"position", "top", "right", "bottom", "left", "z-index",
	),
	group("display-box",
		"display",
		"float",
		"clear",
		"flex",
		"flex-direction",
		"flex-wrap",
		"flex-flow",
		"flex-grow",
		"flex-shrink",
		"flex-basis",
		"justify",
		"align",
		"place",
		"order",
		"grid",
		"grid-template",
		"grid-auto",
		"grid-row",
		"grid-column",
		"gap",
		"row-gap",
		"column-gap",
		"width",
		"min-width",
		"max-width",
		"height",
		"min-height",
		"max-height",
		"inline-size",
		"block-size",
		"margin",
		"padding",
		"box-sizing",
		"overflow",
		"overflow-x",
		"overflow-y",
	),
	group("border-background",
		"border",
		"border-top",
		"border-right",
		"border-bottom",
		"border-left",
		"border-radius",
		"outline",
		"background",
		"box-shadow",
	),
	group("typography",
		"font", "line-height", "text", "color",
	),
	group("interaction",
		"cursor", "transition", "transform", "animation",
	),
	group("etc",
		"content", "list-style", "appearance",
	),
}
