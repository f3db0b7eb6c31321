package http

import (
	"html/template"
	"net/http"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/oapi-codegen/runtime"
)

type pageRenderer struct {
	tmpl *template.Template
}

func (p *pageRenderer) render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return p.tmpl.ExecuteTemplate(w, name, data)
}

// Welcome handles GET /.
func (s *Server) Welcome(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.render(w, "welcome.html", nil); err != nil {
		s.logger.Error("render welcome page failed", "err", err)
	}
}

// ChooseEnvironment handles GET /environment.
func (s *Server) ChooseEnvironment(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Environments": s.engine.Environments()}
	if err := s.pages.render(w, "environment.html", data); err != nil {
		s.logger.Error("render environment page failed", "err", err)
	}
}

// GamePage handles GET /index?environment=name. Unknown or missing themes get the
// selection page instead.
func (s *Server) GamePage(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := runtime.BindQueryParameter("form", true, false, "environment", r.URL.Query(), &name); err != nil {
		s.logger.Debug("bad environment parameter", "err", err)
		name = ""
	}

	var env domain.Environment
	var err error
	if name != "" {
		env, err = s.engine.Catalog().Lookup(name)
	}
	if name == "" || err != nil {
		s.ChooseEnvironment(w, r)
		return
	}

	if err := s.pages.render(w, "index.html", map[string]any{"Environment": env}); err != nil {
		s.logger.Error("render game page failed", "err", err)
	}
}
