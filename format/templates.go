package format

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"cssfmt/config"
	"cssfmt/css"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	SourceFile string
	SourceDir  string
	Mode       string
	Preset     string
	Units      string
	Sorted     bool
}

func buildValues(name config.TemplateFieldName, src string, opts css.Options) Values {
	preset := "none"
	if opts.SortProperties {
		preset = opts.SortPreset.String()
	}
	return Values{
		Context:    string(name),
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		SourceDir:  filepath.ToSlash(filepath.Dir(src)),
		Mode:       opts.OutputMode.String(),
		Preset:     preset,
		Units:      opts.UnitMode.String(),
		Sorted:     opts.SortProperties,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
