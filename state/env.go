// Package state defines shared program state.
package state

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"cssfmt/config"
	"cssfmt/css"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by format subcommand
	NoDirs    bool
	Overwrite bool
	Stdout    bool
	CodePage  encoding.Encoding
	// command line overrides of configured format options
	Update css.OptionsUpdate

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// FormatOptions returns formatter options: configured values with command
// line overrides on top.
func (e *LocalEnv) FormatOptions() (css.Options, error) {
	if e.Cfg == nil {
		return css.Options{}, errors.New("configuration is not loaded")
	}
	opts, err := e.Cfg.Format.Options()
	if err != nil {
		return css.Options{}, err
	}
	return opts.With(e.Update).Clamp(), nil
}
