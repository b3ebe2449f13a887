// Package format implements format and inspect commands: finds stylesheets
// in files, directories and zip archives, formats them and stores results.
package format

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssfmt/archive"
	"cssfmt/common"
	"cssfmt/css"
	"cssfmt/state"
)

// stdinName is used as source name when reading from STDIN.
const stdinName = "stdin.css"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("format")

	src := cmd.Args().Get(0)
	fromStdin := len(src) == 0 || src == "-"
	if !fromStdin {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	haveDst := len(dst) != 0
	if !haveDst {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite, env.Stdout = cmd.Bool("nodirs"), cmd.Bool("overwrite"), cmd.Bool("stdout")
	if fromStdin && !haveDst {
		// filter mode: STDIN to STDOUT
		env.Stdout = true
	}

	if env.Update, err = optionsUpdate(cmd); err != nil {
		return err
	}

	// Since zip "standard" does not define file name encoding we may need to
	// force archaic code page for old archives
	cp := cmd.String("force-zip-cp")
	if len(cp) > 0 {
		env.CodePage, err = ianaindex.IANA.Encoding(cp)
		if err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	opts, err := env.FormatOptions()
	if err != nil {
		return fmt.Errorf("unable to prepare format options: %w", err)
	}

	in, out := stdio(cmd)
	b := newBatch(env, opts, out, log)

	log.Info("Processing starting", zap.String("source", displaySource(src, fromStdin)), zap.String("destination", displayDestination(dst, env.Stdout)),
		zap.Stringer("mode", opts.OutputMode), zap.Bool("sort", opts.SortProperties), zap.Stringer("units", opts.UnitMode))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)), zap.Int("files", b.count))
	}(time.Now())

	if fromStdin {
		err = b.processStdin(ctx, in, dst)
	} else {
		err = b.process(ctx, src, dst)
	}
	if err != nil {
		return err
	}
	return b.result()
}

func displaySource(src string, stdin bool) string {
	if stdin {
		return "STDIN"
	}
	return src
}

func displayDestination(dst string, stdout bool) string {
	if stdout {
		return "STDOUT"
	}
	return dst
}

// stdio returns streams of the root command, so tests could replace them.
func stdio(cmd *cli.Command) (io.Reader, io.Writer) {
	var (
		in  io.Reader = os.Stdin
		out io.Writer = os.Stdout
	)
	if root := cmd.Root(); root != nil {
		if root.Reader != nil {
			in = root.Reader
		}
		if root.Writer != nil {
			out = root.Writer
		}
	}
	return in, out
}

// optionsUpdate collects format options explicitly set on command line.
// Values which are not set are left to configuration.
func optionsUpdate(cmd *cli.Command) (css.OptionsUpdate, error) {
	var u css.OptionsUpdate

	if cmd.IsSet("mode") {
		m, err := common.ParseOutputMode(cmd.String("mode"))
		if err != nil {
			return u, fmt.Errorf("bad --mode value: %w", err)
		}
		u.OutputMode = &m
	}
	if cmd.IsSet("sort") {
		p, err := common.ParseSortPreset(cmd.String("sort"))
		if err != nil {
			return u, fmt.Errorf("bad --sort value: %w", err)
		}
		sorted := p != common.SortPresetNone
		u.SortPreset, u.SortProperties = &p, &sorted
	}
	if cmd.IsSet("units") {
		m, err := common.ParseUnitMode(cmd.String("units"))
		if err != nil {
			return u, fmt.Errorf("bad --units value: %w", err)
		}
		u.UnitMode = &m
	}
	if cmd.IsSet("attr-spacing") {
		s, err := common.ParseAttrSpacing(cmd.String("attr-spacing"))
		if err != nil {
			return u, fmt.Errorf("bad --attr-spacing value: %w", err)
		}
		u.AttrSpacing = &s
	}
	if cmd.IsSet("px-base") {
		v := cmd.Float("px-base")
		u.PxBase = &v
	}
	if cmd.IsSet("rem-base") {
		v := cmd.Float("rem-base")
		u.RemBase = &v
	}

	negated := func(name string, dst **bool) {
		if cmd.IsSet(name) {
			v := !cmd.Bool(name)
			*dst = &v
		}
	}
	negated("keep-comments", &u.RemoveComments)
	negated("no-collapse", &u.CollapseWhitespace)
	negated("no-tighten", &u.TightenSymbols)
	negated("keep-semicolon", &u.TrimSemicolon)

	return u, nil
}

// batch carries state of a single format run.
type batch struct {
	env  *state.LocalEnv
	opts css.Options
	fmt  *css.Formatter
	insp *css.Inspector
	out  io.Writer
	log  *zap.Logger

	count int
	errs  error
}

func newBatch(env *state.LocalEnv, opts css.Options, out io.Writer, log *zap.Logger) *batch {
	return &batch{
		env:  env,
		opts: opts,
		fmt:  css.NewFormatter(log),
		insp: css.NewInspector(log),
		out:  out,
		log:  log,
	}
}

// fail records per-file error, processing continues.
func (b *batch) fail(msg string, err error, fields ...zap.Field) {
	b.log.Error(msg, append(fields, zap.Error(err))...)
	b.errs = multierr.Append(b.errs, err)
}

func (b *batch) result() error {
	if b.errs == nil {
		return nil
	}
	return fmt.Errorf("unable to format %d file(s): %w", len(multierr.Errors(b.errs)), b.errs)
}

// process handles the core logic independently of CLI framework. It
// determines the input type (directory, archive, or single file) and processes
// accordingly.
func (b *batch) process(ctx context.Context, src, dst string) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := b.processDir(ctx, head, dst); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := b.handleArchive(ctx, head, tail, "", dst); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		stylesheet, enc, err := isStylesheetFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if stylesheet && len(tail) == 0 {
			b.processFile(ctx, head, filepath.Base(head), enc, dst)
			break
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processStdin formats stylesheet read from the stream.
func (b *batch) processStdin(ctx context.Context, in io.Reader, dst string) error {
	br := bufio.NewReader(in)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("unable to read STDIN: %w", err)
	}
	b.count++
	if err := b.processStylesheet(ctx, br, detectUTF(head), stdinName, dst); err != nil {
		b.fail("Unable to process STDIN", err)
	}
	return nil
}

func (b *batch) processFile(ctx context.Context, path, src string, enc srcEncoding, dst string) {
	b.count++

	file, err := os.Open(path)
	if err != nil {
		b.fail("Unable to process file", err, zap.String("file", path))
		return
	}
	defer file.Close()

	if err := b.processStylesheet(ctx, file, enc, src, dst); err != nil {
		b.fail("Unable to process file", err, zap.String("file", path))
	}
}

// processDir walks directory tree finding stylesheets and archives and
// processes them in natural order.
func (b *batch) processDir(ctx context.Context, dir, dst string) error {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			b.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if info.IsDir() && path != dir && path == dst {
			// results of this run
			return filepath.SkipDir
		}
		if info.Mode().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	count := b.count
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			b.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			if err := b.handleArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst); err != nil {
				b.fail("Unable to process archive", err, zap.String("file", path))
			}
			continue
		}

		stylesheet, enc, err := isStylesheetFile(path)
		if err != nil {
			b.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if !stylesheet {
			b.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		b.processFile(ctx, path, src, enc, dst)
	}
	if b.count == count {
		b.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

// handleArchive either formats stylesheets from archive as separate files or
// produces formatted copy of the whole archive.
func (b *batch) handleArchive(ctx context.Context, path, pathIn, pathOut, dst string) error {
	if b.env.Cfg.Output.RepackArchives {
		if !b.env.Stdout {
			return b.repackArchive(ctx, path, pathIn, pathOut, dst)
		}
		b.log.Warn("Archive repacking is not possible when writing to STDOUT", zap.String("archive", path))
	}
	return b.processArchive(ctx, path, pathIn, pathOut, dst)
}

// processArchive walks all files inside archive, finds stylesheets under
// "pathIn" and processes them.
func (b *batch) processArchive(ctx context.Context, path, pathIn, pathOut, dst string) (err error) {
	count := b.count
	defer func() {
		if err == nil && count == b.count {
			b.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	return archive.Walk(path, pathIn, func(archive string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		stylesheet, enc, err := isStylesheetInArchive(f)
		if err != nil {
			b.log.Warn("Skipping file in archive",
				zap.String("archive", archive), zap.String("path", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		if !stylesheet {
			b.log.Debug("Skipping file, not recognized as stylesheet", zap.String("archive", archive), zap.String("file", f.FileHeader.Name))
			return nil
		}

		b.count++

		r, err := f.Open()
		if err != nil {
			b.fail("Unable to process file in archive", err,
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name))
			return nil
		}
		defer r.Close()

		if err := b.processStylesheet(ctx, r, enc, filepath.Join(pathOut, b.entryName(&f.FileHeader)), dst); err != nil {
			b.fail("Unable to process file in archive", err,
				zap.String("archive", archive), zap.String("file", f.FileHeader.Name))
		}
		return nil
	})
}

// entryName returns name of archive entry converting it from forced code page
// when necessary.
func (b *batch) entryName(fh *zip.FileHeader) string {
	name := fh.Name
	cp := b.env.CodePage
	if cp == nil || !fh.NonUTF8 {
		return name
	}
	// forcing zip file name encoding
	n, err := cp.NewDecoder().String(name)
	if err != nil {
		cpName, _ := ianaindex.IANA.Name(cp)
		b.log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cpName), zap.String("path", name), zap.Error(err))
		return name
	}
	return n
}

// repackArchive produces copy of the archive with stylesheets under "pathIn"
// formatted, the rest of the entries are copied untouched.
func (b *batch) repackArchive(ctx context.Context, arc, pathIn, pathOut, dst string) error {
	outputName := buildArchivePath(filepath.Join(pathOut, filepath.Base(arc)), dst, b.opts, b.env)
	if err := b.prepareOutput(outputName); err != nil {
		return err
	}

	log := b.log.With(zap.String("archive", arc))
	log.Info("Repacking starting", zap.String("to", outputName))

	count, err := archive.Repack(arc, outputName, func(f *fixzip.File) ([]byte, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if strings.HasSuffix(f.Name, "/") || !archive.Match(f.Name, pathIn) || !hasStylesheetExt(f.Name) {
			return nil, false, nil
		}
		b.count++

		data, err := b.formatEntry(f)
		if err != nil {
			// keep original entry
			b.fail("Unable to process file in archive", err, zap.String("archive", arc), zap.String("file", f.Name))
			return nil, false, nil
		}
		return data, true, nil
	})
	if err != nil {
		return err
	}
	log.Info("Repacking completed", zap.String("to", outputName), zap.Int("formatted", count))

	if b.env.Rpt != nil {
		if err := b.env.Rpt.StoreCopy(path.Join("result", filepath.Base(outputName)), outputName); err != nil {
			log.Warn("Unable to store result in report", zap.Error(err))
		}
	}
	return nil
}

func (b *batch) formatEntry(f *fixzip.File) (_ []byte, rerr error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Formatting ended with panic", zap.Any("panic", r), zap.String("file", f.Name), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("formatting panic: %v", r)
		}
	}()

	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data, err := decodeStylesheet(bytes.NewReader(raw), detectUTF(raw), b.log)
	if err != nil {
		return nil, err
	}
	result := b.format(f.Name, data)
	return []byte(terminate(result)), nil
}

// format runs formatter and reports structure of the stylesheet before and
// after.
func (b *batch) format(src string, data []byte) string {
	result := b.fmt.Format(string(data), b.opts)

	before, after := b.insp.Inspect(data), b.insp.Inspect([]byte(result))
	b.log.Debug("Stylesheet formatted", zap.String("file", src), zap.Object("before", before), zap.Object("after", after))
	if before.Blocks() != after.Blocks() || before.Declarations != after.Declarations {
		b.log.Warn("Stylesheet structure changed after formatting, source may be malformed",
			zap.String("file", src), zap.Object("before", before), zap.Object("after", after))
	}

	if b.env.Rpt != nil {
		name := filepath.ToSlash(src)
		b.env.Rpt.StoreData(path.Join("source", name), data)
		b.env.Rpt.StoreData(path.Join("result", name), []byte(result))
	}
	return result
}

// processStylesheet formats single stylesheet. "src" is part of the source
// path (always including file name) relative to the original path. When
// actual file was specified it will be just base file name without a path.
// When looking inside archive or directory it will be relative path inside
// archive or directory (including base file name). "dst" is the destination
// directory where the result should be written.
func (b *batch) processStylesheet(ctx context.Context, r io.Reader, enc srcEncoding, src, dst string) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	var outputName string

	b.log.Info("Formatting starting", zap.String("from", src), zap.Stringer("encoding", enc))
	defer func(start time.Time) {
		// single broken stylesheet should not stop the batch
		if r := recover(); r != nil {
			b.log.Error("Formatting ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("formatting panic: %v", r)
		} else if rerr == nil {
			b.log.Info("Formatting completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := decodeStylesheet(r, enc, b.log)
	if err != nil {
		return fmt.Errorf("unable to decode stylesheet (%s): %w", src, err)
	}

	result := terminate(b.format(src, data))

	if b.env.Stdout {
		outputName = "STDOUT"
		if _, err := io.WriteString(b.out, result); err != nil {
			return fmt.Errorf("unable to write result: %w", err)
		}
		return nil
	}

	outputName = buildOutputPath(src, dst, b.opts, b.env)
	if err := b.prepareOutput(outputName); err != nil {
		return err
	}
	if err := os.WriteFile(outputName, []byte(result), 0644); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	return nil
}

// prepareOutput checks if output file already exists and makes sure its
// directory is there.
func (b *batch) prepareOutput(outputName string) error {
	if _, err := os.Stat(outputName); err == nil {
		if !b.env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		b.log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

// terminate ends non-empty result with new line.
func terminate(s string) string {
	if s == "" {
		return s
	}
	return s + "\n"
}
