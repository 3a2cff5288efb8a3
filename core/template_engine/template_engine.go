package template_engine

import (
	"embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/template"

	"github.com/thingc24/carve/core/shared"
)

//go:embed templates/*.tmpl
var TemplateFS embed.FS

type TemplateRef struct {
	Name string
}

var TEMPLATES = struct {
	PLAN TemplateRef
}{
	PLAN: TemplateRef{Name: "plan.tmpl"},
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     shared.ToTitle,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
		"indent":    shared.Indent,
		"plural":    shared.Plural,

		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
		"env": os.Getenv,
		"add": func(a, b int) int { return a + b },

		"len": func(v interface{}) int { return reflect.ValueOf(v).Len() },
		"not": func(b bool) bool { return !b },
	}
}

func NewTemplateEngine() *TemplateEngine {
	funcMap := template.FuncMap{}

	for name, fn := range getDefaultFuncMap() {
		funcMap[name] = fn
	}

	return &TemplateEngine{
		funcMap: funcMap,
	}
}

// Render executes the embedded template ref with data and writes it to w.
func (te *TemplateEngine) Render(ref TemplateRef, w io.Writer, data interface{}) error {
	content, err := TemplateFS.ReadFile("templates/" + ref.Name)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", ref.Name, err)
	}

	tmpl, err := template.New(ref.Name).Funcs(te.funcMap).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", ref.Name, err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", ref.Name, err)
	}
	return nil
}
