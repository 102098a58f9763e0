package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/tphakala/astral-forecast/internal/api/middleware"
	"github.com/tphakala/astral-forecast/internal/dashboard"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

// pageData is what the dashboard template renders.
type pageData struct {
	Theme         Theme
	Locations     []locations.Location
	Selected      string
	Report        *dashboard.Report
	Error         string
	CorrelationID string
}

type pageRenderer struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "--:--"
		}
		return t.Format("15:04")
	},
	"score10": func(score float64) string {
		return fmt.Sprintf("%.1f", score/10)
	},
	"num": func(p *float64, format string) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf(format, *p)
	},
	"pct": func(v float64) string {
		return fmt.Sprintf("%.0f%%", max(0, min(100, v)))
	},
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.New("dashboard.html.tmpl").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/dashboard.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

// render executes the template into a buffer so a failure never leaves a half written page.
func (p *pageRenderer) render(c echo.Context, status int, data *pageData) error {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		GetLogger().Error("dashboard render failed",
			logger.Error(err),
			logger.String("correlation_id", data.CorrelationID))
		return c.String(http.StatusInternalServerError, "dashboard could not be rendered")
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// dashboardPage renders the HTML dashboard for ?location=, or the default location.
func (s *Server) dashboardPage(c echo.Context) error {
	name := c.QueryParam("location")
	if name == "" {
		name = s.settings.Location
	}

	data := &pageData{
		Theme:         s.theme,
		Locations:     locations.All(),
		Selected:      name,
		CorrelationID: mw.CorrelationID(c),
	}

	loc, err := locations.Lookup(name)
	if err != nil {
		data.Error = fmt.Sprintf("Unknown location %q.", name)
		return s.page.render(c, http.StatusNotFound, data)
	}
	data.Selected = loc.Name

	report, err := s.service.Tonight(c.Request().Context(), loc)
	if err != nil {
		GetLogger().Warn("dashboard report failed",
			logger.String("location", loc.Name),
			logger.String("error", errors.ScrubURL(err.Error())),
			logger.String("correlation_id", data.CorrelationID))
		data.Error = "Tonight's forecast is unavailable right now. Try again in a few minutes."
		return s.page.render(c, upstreamStatus(err), data)
	}

	data.Report = report
	return s.page.render(c, http.StatusOK, data)
}
