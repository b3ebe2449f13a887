package format

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"

	"cssfmt/css"
)

// summaryRows parses printed summary into label -> [before, after].
func summaryRows(out string) map[string][]string {
	rows := make(map[string][]string)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 3 {
			rows[fields[0]] = fields[1:]
		}
	}
	return rows
}

func TestInspect(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	t.Run("stdin", func(t *testing.T) {
		cmd := &cli.Command{Name: "inspect", Flags: OptionFlags(), Action: Inspect}
		out, err := runCommand(t, ctx, cmd, "a { color : red ; margin : 0 }\nb { color : blue }")
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		if !strings.HasPrefix(out, "STDIN") {
			t.Errorf("output should start with source name:\n%s", out)
		}
		rows := summaryRows(out)
		checks := map[string][]string{
			"rulesets":     {"2", "2"},
			"at-rules":     {"0", "0"},
			"declarations": {"3", "3"},
		}
		for label, want := range checks {
			got := rows[label]
			if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
				t.Errorf("%s = %v, want %v", label, got, want)
			}
		}
	})

	t.Run("file", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "site.css")
		writeFile(t, src, []byte(sampleInput))

		cmd := &cli.Command{Name: "inspect", Flags: OptionFlags(), Action: Inspect}
		out, err := runCommand(t, ctx, cmd, "", "--mode", "minify", src)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		rows := summaryRows(out)
		if got := rows["bytes"]; len(got) != 2 || got[1] != "35" {
			t.Errorf("bytes = %v, want minified size 35", got)
		}
	})

	t.Run("tree", func(t *testing.T) {
		cmd := &cli.Command{Name: "inspect", Flags: InspectFlags(), Action: Inspect}
		out, err := runCommand(t, ctx, cmd, "a { color : red }", "--tree")
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}
		for _, want := range []string{"stylesheet: 1 block(s)", `rule: "a"`, `declaration: "color:red"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output does not contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := &cli.Command{Name: "inspect", Flags: OptionFlags(), Action: Inspect}
		if _, err := runCommand(t, ctx, cmd, "", filepath.Join(t.TempDir(), "missing.css")); err == nil {
			t.Error("Inspect() expected error for missing file")
		}
	})
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	before := css.Summary{Bytes: 100, Rulesets: 2, Declarations: 5, Comments: 1}
	after := css.Summary{Bytes: 40, Rulesets: 2, Declarations: 5}
	if err := printSummary(&buf, "site.css", before, after); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), buf.String())
	}
	if fields := strings.Fields(lines[0]); len(fields) != 3 || fields[0] != "site.css" {
		t.Errorf("header = %q", lines[0])
	}
	rows := summaryRows(buf.String())
	if got := rows["comments"]; len(got) != 2 || got[0] != "1" || got[1] != "0" {
		t.Errorf("comments = %v", got)
	}
	if got := rows["bytes"]; len(got) != 2 || got[0] != "100" || got[1] != "40" {
		t.Errorf("bytes = %v", got)
	}
}
