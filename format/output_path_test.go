package format

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"cssfmt/common"
	"cssfmt/config"
	"cssfmt/css"
	"cssfmt/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.FileNameTransliterate = transliterate
	cfg.Output.NameTemplate = template

	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath(t *testing.T) {
	sorted := css.DefaultOptions()
	sorted.SortProperties = true
	sorted.OutputMode = common.OutputModeMinify

	tests := []struct {
		name          string
		noDirs        bool
		transliterate bool
		template      string
		opts          css.Options
		src           string
		want          string
	}{
		{
			name: "default name keeps directories",
			src:  "themes/dark/site.css",
			want: filepath.Join("/output", "themes", "dark", "site.compact.css"),
		},
		{
			name:   "default name without directories",
			noDirs: true,
			src:    "themes/dark/site.css",
			want:   filepath.Join("/output", "site.compact.css"),
		},
		{
			name:          "transliterated name",
			transliterate: true,
			src:           "My Site Theme.css",
			want:          filepath.Join("/output", "my-site-theme.compact.css"),
		},
		{
			name:     "template with options",
			template: "{{ .SourceFile }}-{{ .Mode }}-{{ .Preset }}",
			src:      "themes/site.css",
			want:     filepath.Join("/output", "themes", "site-multi-line-none.css"),
		},
		{
			name:     "template with sorting preset and subdirectory",
			template: "{{ .Preset | upper }}/{{ .SourceFile }}.min",
			opts:     sorted,
			src:      "site.css",
			want:     filepath.Join("/output", "CONCENTRIC", "site.min.css"),
		},
		{
			name:     "template cannot escape destination",
			template: "../../{{ .SourceFile }}",
			noDirs:   true,
			src:      "site.css",
			want:     filepath.Join("/output", "site.css"),
		},
		{
			name:     "broken template falls back to default",
			template: "{{ .SourceFile ",
			src:      "site.css",
			want:     filepath.Join("/output", "site.compact.css"),
		},
		{
			name:     "unknown field falls back to default",
			template: "{{ .Title }}",
			src:      "site.css",
			want:     filepath.Join("/output", "site.compact.css"),
		},
		{
			name:     "empty expansion falls back to default",
			template: "{{ if false }}x{{ end }}",
			src:      "site.css",
			want:     filepath.Join("/output", "site.compact.css"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			opts := tt.opts
			if opts.PxBase == 0 {
				opts = css.DefaultOptions()
			}
			if got := buildOutputPath(tt.src, "/output", opts, env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildArchivePath(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")
	got := buildArchivePath(filepath.Join("bundles", "theme.zip"), "/output", css.DefaultOptions(), env)
	want := filepath.Join("/output", "bundles", "theme.compact.zip")
	if got != want {
		t.Errorf("buildArchivePath() = %q, want %q", got, want)
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"a", []string{"a"}},
		{filepath.Join("a", "b", "c"), []string{"a", "b", "c"}},
		{filepath.Join("a", "..", "..", "b"), []string{"b"}},
		{".", nil},
	}
	for _, tt := range tests {
		got := splitAndCleanPath(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndCleanPath(%q) = %q, want %q", tt.path, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitAndCleanPath(%q) = %q, want %q", tt.path, got, tt.want)
				break
			}
		}
	}
}

func TestExpandTemplate(t *testing.T) {
	opts := css.DefaultOptions()
	opts.UnitMode = common.UnitModePx2rem
	values := buildValues(config.OutputNameTemplateFieldName, filepath.Join("themes", "site.css"), opts)

	tests := []struct {
		field string
		want  string
	}{
		{"simple-text", "simple-text"},
		{"{{ .Context }}", string(config.OutputNameTemplateFieldName)},
		{"{{ .SourceDir }}/{{ .SourceFile }}", "themes/site"},
		{"{{ .Units }}{{ if .Sorted }}-sorted{{ end }}", "px2rem"},
		{`{{ .SourceFile | replace "i" "1" }}`, "s1te"},
	}
	for _, tt := range tests {
		got, err := expandTemplate(config.OutputNameTemplateFieldName, tt.field, values)
		if err != nil {
			t.Errorf("expandTemplate(%q) error = %v", tt.field, err)
			continue
		}
		if got != tt.want {
			t.Errorf("expandTemplate(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}

	if _, err := expandTemplate(config.OutputNameTemplateFieldName, "{{ .Nope }}", values); err == nil {
		t.Error("expandTemplate() expected error for unknown field")
	}
}
