package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/tphakala/astral-forecast/internal/api/middleware"
	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/locations"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/nasa"
	"github.com/tphakala/astral-forecast/internal/neo"
)

const dateLayout = "2006-01-02"

// ErrorResponse represents a standardized error response from the API
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NEOResponse is the body of GET /api/v1/neo.
type NEOResponse struct {
	Date       string         `json:"date"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Summary    neo.Summary    `json:"summary"`
	Approaches []neo.Approach `json:"approaches"`
}

// APODResponse is the body of GET /api/v1/apod.
type APODResponse struct {
	*nasa.APOD
	ImageURL  string    `json:"image_url"`
	FetchedAt time.Time `json:"fetched_at"`
}

// HandleError logs err and writes it as an ErrorResponse.
func (s *Server) HandleError(c echo.Context, err error, message string, code int) error {
	resp := &ErrorResponse{
		Error:         message,
		Message:       message,
		Code:          code,
		CorrelationID: mw.CorrelationID(c),
	}
	if err != nil {
		resp.Error = errors.ScrubURL(err.Error())
	}

	GetLogger().Error("API error",
		logger.String("correlation_id", resp.CorrelationID),
		logger.String("message", message),
		logger.String("error", resp.Error),
		logger.Int("code", code),
		logger.String("path", c.Request().URL.Path),
		logger.String("method", c.Request().Method),
		logger.String("ip", c.RealIP()))

	return c.JSON(code, resp)
}

// upstreamStatus maps a feed error to the status returned to clients.
func upstreamStatus(err error) int {
	switch {
	case errors.IsCategory(err, errors.CategoryTimeout):
		return http.StatusGatewayTimeout
	case errors.IsCategory(err, errors.CategoryConfiguration):
		return http.StatusServiceUnavailable
	case errors.IsCategory(err, errors.CategoryLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// parseDate reads the optional ?date=YYYY-MM-DD query parameter.
func parseDate(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

func (s *Server) listLocations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"default":   s.settings.Location,
		"locations": locations.All(),
	})
}

func (s *Server) tonight(c echo.Context) error {
	loc, err := locations.Lookup(c.Param("location"))
	if err != nil {
		return s.HandleError(c, err, "Unknown location", http.StatusNotFound)
	}

	report, err := s.service.Tonight(c.Request().Context(), loc)
	if err != nil {
		return s.HandleError(c, err, "Failed to build tonight's report", upstreamStatus(err))
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) neoFeed(c echo.Context) error {
	date, err := parseDate(c)
	if err != nil {
		return s.HandleError(c, err, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
	}

	approaches, fetchedAt, err := s.service.NEO(c.Request().Context(), date)
	if err != nil {
		return s.HandleError(c, err, "Failed to fetch near-Earth objects", upstreamStatus(err))
	}

	resp := NEOResponse{
		Date:       c.QueryParam("date"),
		FetchedAt:  fetchedAt,
		Summary:    neo.Summarize(approaches),
		Approaches: approaches,
	}
	if resp.Approaches == nil {
		resp.Approaches = []neo.Approach{}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) apod(c echo.Context) error {
	date, err := parseDate(c)
	if err != nil {
		return s.HandleError(c, err, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
	}

	apod, fetchedAt, err := s.service.APOD(c.Request().Context(), date)
	if err != nil {
		return s.HandleError(c, err, "Failed to fetch the picture of the day", upstreamStatus(err))
	}
	return c.JSON(http.StatusOK, APODResponse{APOD: apod, ImageURL: apod.ImageURL(), FetchedAt: fetchedAt})
}
