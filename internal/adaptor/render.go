package adaptor

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"time"

	"finance-tracker/internal/dto/request"
	"finance-tracker/internal/dto/response"

	"go.uber.org/zap"
)

const baseTemplate = "templates/base.html"

// view is the data every page template is executed with.
type view struct {
	AppName   string
	LoggedIn  bool
	Error     string
	Info      string
	Next      string
	Form      any
	Dashboard *response.Dashboard
}

// Renderer executes pages that are parsed together with the shared base layout.
type Renderer struct {
	pages   map[string]*template.Template
	appName string
	log     *zap.Logger
}

var templateFuncs = template.FuncMap{
	"contains": func(list []string, v string) bool {
		return slices.Contains(list, v)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"date": formatDate,
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(request.DateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(request.DateLayout)
	default:
		return ""
	}
}

// NewRenderer parses every templates/*.html page in fsys against the base layout.
func NewRenderer(fsys fs.FS, appName string, log *zap.Logger) (*Renderer, error) {
	files, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == baseTemplate {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, baseTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:   pages,
		appName: appName,
		log:     log.With(zap.String("component", "renderer")),
	}, nil
}

// Render writes page with the given status. The page is executed into a buffer
// first so a template failure still yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, v view) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.log.Error("Unknown template", zap.String("page", page))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	v.AppName = rd.appName

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", v); err != nil {
		rd.log.Error("Template execution failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
