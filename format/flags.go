package format

import (
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"

	"cssfmt/common"
)

// OptionFlags returns flags which override configured format options for a
// single run.
func OptionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"},
			Usage: fmt.Sprintf("output `MODE` (%s)", strings.Join(common.OutputModeNames(), ", "))},
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"},
			Usage: fmt.Sprintf("sort declarations using `PRESET` (%s), \"none\" disables sorting", strings.Join(common.SortPresetNames(), ", "))},
		&cli.StringFlag{Name: "units", Aliases: []string{"u"},
			Usage: fmt.Sprintf("convert units (%s)", strings.Join(common.UnitModeNames(), ", "))},
		&cli.FloatFlag{Name: "px-base", Usage: "number of pixels in 1rem for px2rem conversion"},
		&cli.FloatFlag{Name: "rem-base", Usage: "number of pixels in 1rem for rem2px conversion"},
		&cli.StringFlag{Name: "attr-spacing",
			Usage: fmt.Sprintf("handling of space between ']' and following selector (%s)", strings.Join(common.AttrSpacingNames(), ", "))},
		&cli.BoolFlag{Name: "keep-comments", Usage: "do not remove comments"},
		&cli.BoolFlag{Name: "no-collapse", Usage: "do not collapse white space"},
		&cli.BoolFlag{Name: "no-tighten", Usage: "do not remove spaces around punctuation"},
		&cli.BoolFlag{Name: "keep-semicolon", Usage: "keep semicolon before closing brace"},
	}
}

// InspectFlags returns flags of the inspect command.
func InspectFlags() []cli.Flag {
	return append(OptionFlags(),
		&cli.BoolFlag{Name: "tree", Aliases: []string{"t"}, Usage: "print block structure of the formatted stylesheet"},
	)
}

// Flags returns flags of the format command.
func Flags() []cli.Flag {
	return append(OptionFlags(),
		&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}, Usage: "when producing output do not keep input directory structure"},
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite files"},
		&cli.BoolFlag{Name: "stdout", Usage: "write results to STDOUT instead of files"},
		&cli.StringFlag{Name: "force-zip-cp",
			Usage: "force `ENCODING` for ALL file names in archives (see IANA.org for character set names)"},
	)
}
