package format

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding/unicode"

	"cssfmt/common"
	"cssfmt/config"
	"cssfmt/state"
)

const (
	sampleInput  = "h1 ,  h2 { color : red ; margin-bottom: 12px ;; }"
	sampleOutput = "h1,h2{\n  color:red;\n  margin-bottom:12px\n}\n"
)

type zipEntry struct {
	name    string
	content string
}

func createZip(t *testing.T, dir, name string, entries []zipEntry) string {
	t.Helper()

	zipPath := filepath.Join(dir, name)
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return zipPath
}

func readZip(t *testing.T, name string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open %s: %v", name, err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read entry %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read result: %v", err)
	}
	return string(data)
}

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t)
	env.Cfg = cfg
	return ctx, env
}

func newTestBatch(t *testing.T, env *state.LocalEnv, out io.Writer) *batch {
	t.Helper()
	opts, err := env.FormatOptions()
	if err != nil {
		t.Fatalf("FormatOptions() error = %v", err)
	}
	return newBatch(env, opts, out, env.Log)
}

func TestProcess_SingleFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "site.css")
	dst := t.TempDir()
	writeFile(t, src, []byte(sampleInput))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, src, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := b.result(); err != nil {
		t.Fatalf("result() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "site.compact.css")); got != sampleOutput {
		t.Errorf("result = %q, want %q", got, sampleOutput)
	}
	if b.count != 1 {
		t.Errorf("count = %d, want 1", b.count)
	}
}

func TestProcess_Encodings(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir, dst := t.TempDir(), t.TempDir()

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sampleInput))
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "utf16.css"), utf16)
	writeFile(t, filepath.Join(dir, "bom.css"), append([]byte{0xEF, 0xBB, 0xBF}, sampleInput...))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, dir, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	for _, name := range []string{"utf16.compact.css", "bom.compact.css"} {
		if got := readFile(t, filepath.Join(dst, name)); got != sampleOutput {
			t.Errorf("%s = %q, want %q", name, got, sampleOutput)
		}
	}
}

func TestProcess_ExistingOutput(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "site.css")
	dst := t.TempDir()
	writeFile(t, src, []byte(sampleInput))
	writeFile(t, filepath.Join(dst, "site.compact.css"), []byte("old"))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, src, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := b.result(); err == nil {
		t.Error("result() expected error for existing output")
	}
	if got := readFile(t, filepath.Join(dst, "site.compact.css")); got != "old" {
		t.Errorf("existing file must not be touched, got %q", got)
	}

	env.Overwrite = true
	b = newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, src, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := b.result(); err != nil {
		t.Fatalf("result() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "site.compact.css")); got != sampleOutput {
		t.Errorf("result = %q, want %q", got, sampleOutput)
	}
}

func TestProcess_Directory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(dir, "a.css"), []byte(sampleInput))
	writeFile(t, filepath.Join(dir, "sub", "b.css"), []byte(sampleInput))
	writeFile(t, filepath.Join(dir, "readme.txt"), []byte("not a stylesheet"))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, dir, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if b.count != 2 {
		t.Errorf("count = %d, want 2", b.count)
	}
	for _, name := range []string{"a.compact.css", filepath.Join("sub", "b.compact.css")} {
		if got := readFile(t, filepath.Join(dst, name)); got != sampleOutput {
			t.Errorf("%s = %q, want %q", name, got, sampleOutput)
		}
	}

	env.NoDirs = true
	dst = t.TempDir()
	b = newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, dir, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "b.compact.css")); err != nil {
		t.Errorf("nodirs output missing: %v", err)
	}
}

func TestProcess_DirectoryNaturalOrder(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "part10.css"), []byte("j{color:red}"))
	writeFile(t, filepath.Join(dir, "part2.css"), []byte("i{color:red}"))

	env.Stdout = true
	var out bytes.Buffer
	b := newTestBatch(t, env, &out)
	if err := b.process(ctx, dir, t.TempDir()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	want := "i{\n  color:red\n}\nj{\n  color:red\n}\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestProcess_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	zipPath := createZip(t, t.TempDir(), "styles.zip", []zipEntry{
		{"css/a.css", sampleInput},
		{"css/b.css", sampleInput},
		{"index.html", "<html/>"},
	})

	t.Run("whole archive", func(t *testing.T) {
		dst := t.TempDir()
		b := newTestBatch(t, env, io.Discard)
		if err := b.process(ctx, zipPath, dst); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		if b.count != 2 {
			t.Errorf("count = %d, want 2", b.count)
		}
		for _, name := range []string{"a.compact.css", "b.compact.css"} {
			if got := readFile(t, filepath.Join(dst, "css", name)); got != sampleOutput {
				t.Errorf("%s = %q, want %q", name, got, sampleOutput)
			}
		}
	})

	t.Run("path inside archive", func(t *testing.T) {
		dst := t.TempDir()
		b := newTestBatch(t, env, io.Discard)
		if err := b.process(ctx, filepath.Join(zipPath, "css", "b.css"), dst); err != nil {
			t.Fatalf("process() error = %v", err)
		}
		if b.count != 1 {
			t.Errorf("count = %d, want 1", b.count)
		}
		if _, err := os.Stat(filepath.Join(dst, "css", "a.compact.css")); !os.IsNotExist(err) {
			t.Error("only requested file should be processed")
		}
	})
}

func TestProcess_RepackArchive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Output.RepackArchives = true
	zipPath := createZip(t, t.TempDir(), "styles.zip", []zipEntry{
		{"css/a.css", sampleInput},
		{"index.html", "<html/>"},
		{"b.css", "b { }"},
	})
	dst := t.TempDir()

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, zipPath, dst); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := b.result(); err != nil {
		t.Fatalf("result() error = %v", err)
	}

	files := readZip(t, filepath.Join(dst, "styles.compact.zip"))
	want := map[string]string{
		"css/a.css":  sampleOutput,
		"index.html": "<html/>",
		"b.css":      "b{}\n",
	}
	if len(files) != len(want) {
		t.Errorf("got %d entries, want %d", len(files), len(want))
	}
	for name, content := range want {
		if files[name] != content {
			t.Errorf("%s = %q, want %q", name, files[name], content)
		}
	}
}

func TestProcess_Errors(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("text"))

	tests := []struct {
		name string
		src  string
	}{
		{"missing source", filepath.Join(dir, "missing.css")},
		{"not a stylesheet", filepath.Join(dir, "notes.txt")},
		{"path inside directory", filepath.Join(dir, "notes.txt", "x.css")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBatch(t, env, io.Discard)
			if err := b.process(ctx, tt.src, t.TempDir()); err == nil {
				t.Error("process() expected error")
			}
		})
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, env := setupTestEnv(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, []byte(sampleInput))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, src, t.TempDir()); err != context.Canceled {
		t.Errorf("process() error = %v, want %v", err, context.Canceled)
	}
}

func TestProcess_Report(t *testing.T) {
	ctx, env := setupTestEnv(t)
	reportPath := filepath.Join(t.TempDir(), "report.zip")
	rpt, err := (&config.ReporterConfig{Destination: reportPath}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, []byte(sampleInput))

	b := newTestBatch(t, env, io.Discard)
	if err := b.process(ctx, src, t.TempDir()); err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readZip(t, reportPath)
	if files["source/site.css"] != sampleInput {
		t.Errorf("source in report = %q", files["source/site.css"])
	}
	if files["result/site.css"] != strings.TrimSuffix(sampleOutput, "\n") {
		t.Errorf("result in report = %q", files["result/site.css"])
	}
}

func TestProcessStdin(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Stdout = true

	var out bytes.Buffer
	b := newTestBatch(t, env, &out)
	if err := b.processStdin(ctx, strings.NewReader(sampleInput), t.TempDir()); err != nil {
		t.Fatalf("processStdin() error = %v", err)
	}
	if out.String() != sampleOutput {
		t.Errorf("output = %q, want %q", out.String(), sampleOutput)
	}

	// empty input produces nothing
	out.Reset()
	if err := b.processStdin(ctx, strings.NewReader("  \n"), t.TempDir()); err != nil {
		t.Fatalf("processStdin() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want nothing", out.String())
	}
}

func runCommand(t *testing.T, ctx context.Context, cmd *cli.Command, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.Reader = strings.NewReader(input)
	cmd.Writer = &out
	err := cmd.Run(ctx, append([]string{cmd.Name}, args...))
	return out.String(), err
}

func TestRun_Stdin(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cmd := &cli.Command{Name: "format", Flags: Flags(), Action: Run}

	got, err := runCommand(t, ctx, cmd, "a { color : red ; }\n\nb { margin : 0 ; padding : 0 }", "--mode", "minify")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if want := "a{color:red}b{margin:0;padding:0}\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_BadFlag(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cmd := &cli.Command{Name: "format", Flags: Flags(), Action: Run}

	if _, err := runCommand(t, ctx, cmd, "a{}", "--mode", "pretty"); err == nil {
		t.Error("Run() expected error for unknown mode")
	}
}

func TestRun_FileToDirectory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "site.css")
	dst := t.TempDir()
	writeFile(t, src, []byte("a { margin : 0 ; color : red ; display : flex }"))

	cmd := &cli.Command{Name: "format", Flags: Flags(), Action: Run}
	if _, err := runCommand(t, ctx, cmd, "", "--sort", "concentric", src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "a{\n  display:flex;\n  margin:0;\n  color:red\n}\n"
	if got := readFile(t, filepath.Join(dst, "site.compact.css")); got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

func TestOptionsUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing set", func(t *testing.T) {
		cmd := &cli.Command{Name: "t", Flags: OptionFlags(), Action: func(_ context.Context, cmd *cli.Command) error {
			u, err := optionsUpdate(cmd)
			if err != nil {
				return err
			}
			if !u.IsEmpty() {
				t.Errorf("optionsUpdate() = %+v, want empty", u)
			}
			return nil
		}}
		if err := cmd.Run(ctx, []string{"t"}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		cmd := &cli.Command{Name: "t", Flags: OptionFlags(), Action: func(_ context.Context, cmd *cli.Command) error {
			u, err := optionsUpdate(cmd)
			if err != nil {
				return err
			}
			if u.OutputMode == nil || *u.OutputMode != common.OutputModeSingleLine {
				t.Errorf("OutputMode = %v", u.OutputMode)
			}
			if u.SortPreset == nil || *u.SortPreset != common.SortPresetAlphabetical {
				t.Errorf("SortPreset = %v", u.SortPreset)
			}
			if u.SortProperties == nil || !*u.SortProperties {
				t.Errorf("SortProperties = %v", u.SortProperties)
			}
			if u.RemoveComments == nil || *u.RemoveComments {
				t.Errorf("RemoveComments = %v", u.RemoveComments)
			}
			if u.PxBase == nil || *u.PxBase != 10 {
				t.Errorf("PxBase = %v", u.PxBase)
			}
			if u.CollapseWhitespace != nil || u.RemBase != nil || u.UnitMode != nil {
				t.Errorf("unexpected overrides: %+v", u)
			}
			return nil
		}}
		args := []string{"t", "--mode", "single-line", "--sort", "alphabetical", "--keep-comments", "--px-base", "10"}
		if err := cmd.Run(ctx, args); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("sort none disables sorting", func(t *testing.T) {
		cmd := &cli.Command{Name: "t", Flags: OptionFlags(), Action: func(_ context.Context, cmd *cli.Command) error {
			u, err := optionsUpdate(cmd)
			if err != nil {
				return err
			}
			if u.SortProperties == nil || *u.SortProperties {
				t.Errorf("SortProperties = %v", u.SortProperties)
			}
			return nil
		}}
		if err := cmd.Run(ctx, []string{"t", "--sort", "none"}); err != nil {
			t.Fatal(err)
		}
	})
}
