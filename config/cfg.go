package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssfmt/common"
	"cssfmt/css"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	GroupConfig struct {
		Name     string   `yaml:"name" validate:"required"`
		Patterns []string `yaml:"patterns" validate:"min=1,dive,required"`
	}

	FormatConfig struct {
		RemoveComments     bool               `yaml:"remove_comments"`
		CollapseWhitespace bool               `yaml:"collapse_whitespace"`
		TightenSymbols     bool               `yaml:"tighten_symbols"`
		TrimSemicolon      bool               `yaml:"trim_semicolon"`
		Mode               common.OutputMode  `yaml:"mode" validate:"gte=0"`
		SortProperties     bool               `yaml:"sort_properties"`
		SortPreset         common.SortPreset  `yaml:"sort_preset" validate:"gte=0"`
		Units              common.UnitMode    `yaml:"units" validate:"gte=0"`
		PxBase             float64            `yaml:"px_base" validate:"gte=1"`
		RemBase            float64            `yaml:"rem_base" validate:"gte=1"`
		AttrSpacing        common.AttrSpacing `yaml:"attr_spacing" validate:"gte=0"`
		CustomGroups       []GroupConfig      `yaml:"custom_groups" validate:"dive"`
	}

	OutputConfig struct {
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		RepackArchives        bool   `yaml:"repack_archives"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Format    FormatConfig   `yaml:"format"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// checkPatterns makes sure every custom property pattern could be compiled.
func checkPatterns(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	for i, g := range cfg.Format.CustomGroups {
		for j, p := range g.Patterns {
			if _, err := css.ParsePattern(p); err != nil {
				sl.ReportError(p, fmt.Sprintf("CustomGroups[%d].Patterns[%d]", i, j), "Patterns", "pattern", "")
			}
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkPatterns)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// Options converts format section to formatter options. Patterns were checked
// during validation, error here means configuration was built by hand.
func (conf *FormatConfig) Options() (css.Options, error) {
	opts := css.Options{
		RemoveComments:     conf.RemoveComments,
		CollapseWhitespace: conf.CollapseWhitespace,
		TightenSymbols:     conf.TightenSymbols,
		TrimSemicolon:      conf.TrimSemicolon,
		OutputMode:         conf.Mode,
		SortProperties:     conf.SortProperties,
		SortPreset:         conf.SortPreset,
		UnitMode:           conf.Units,
		PxBase:             conf.PxBase,
		RemBase:            conf.RemBase,
		AttrSpacing:        conf.AttrSpacing,
	}
	for _, g := range conf.CustomGroups {
		group := css.PropertyGroup{Name: g.Name, Patterns: make([]css.PropertyPattern, 0, len(g.Patterns))}
		for _, p := range g.Patterns {
			pattern, err := css.ParsePattern(p)
			if err != nil {
				return css.Options{}, fmt.Errorf("custom group %q: %w", g.Name, err)
			}
			group.Patterns = append(group.Patterns, pattern)
		}
		opts.CustomGroups = append(opts.CustomGroups, group)
	}
	return opts.Clamp(), nil
}
