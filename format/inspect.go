package format

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssfmt/css"
	"cssfmt/state"
)

// Inspect prints structural summary of the stylesheet before and after
// formatting with effective options.
func Inspect(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if env.Update, err = optionsUpdate(cmd); err != nil {
		return err
	}
	opts, err := env.FormatOptions()
	if err != nil {
		return fmt.Errorf("unable to prepare format options: %w", err)
	}

	in, out := stdio(cmd)

	name := cmd.Args().Get(0)
	if len(name) == 0 || name == "-" {
		name = "STDIN"
	} else {
		file, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("unable to open stylesheet: %w", err)
		}
		defer file.Close()
		in = file
	}

	br := bufio.NewReader(in)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	data, err := decodeStylesheet(br, detectUTF(head), log)
	if err != nil {
		return err
	}

	result := css.NewFormatter(log).Format(string(data), opts)

	insp := css.NewInspector(log)
	if err := printSummary(out, name, insp.Inspect(data), insp.Inspect([]byte(result))); err != nil {
		return err
	}
	if cmd.Bool("tree") {
		if _, err := fmt.Fprintf(out, "\n%s", css.DumpTree(result)); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(w io.Writer, name string, before, after css.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	rows := []struct {
		label         string
		before, after int
	}{
		{"bytes", before.Bytes, after.Bytes},
		{"rulesets", before.Rulesets, after.Rulesets},
		{"at-rules", before.AtRules, after.AtRules},
		{"declarations", before.Declarations, after.Declarations},
		{"comments", before.Comments, after.Comments},
	}

	fmt.Fprintf(tw, "%s\tbefore\tafter\t\n", name)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t\n", r.label, r.before, r.after)
	}
	return tw.Flush()
}
