package templates

import (
	"html/template"
	"io"
	"path/filepath"

	"urbandict/config"

	"github.com/labstack/echo/v4"
)

type Service struct {
	config    config.TemplatesConfig
	templates *template.Template
}

// Renderer plugs the parsed template set into echo. In development mode the
// set is re-parsed per render so template edits show up without a restart.
type Renderer struct {
	templates *template.Template
	config    config.TemplatesConfig
}

func New(cfg config.TemplatesConfig) *Service {
	return &Service{config: cfg}
}

func (s *Service) LoadTemplates() error {
	pattern := filepath.Join(s.config.Dir, "*"+s.config.Extension)
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		return err
	}

	s.templates = tmpl
	return nil
}

func (s *Service) Renderer() *Renderer {
	return &Renderer{
		templates: s.templates,
		config:    s.config,
	}
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	if r.config.Development {
		pattern := filepath.Join(r.config.Dir, "*"+r.config.Extension)
		tmpl, err := template.ParseGlob(pattern)
		if err != nil {
			return err
		}
		return tmpl.ExecuteTemplate(w, name, data)
	}

	return r.templates.ExecuteTemplate(w, name, data)
}
