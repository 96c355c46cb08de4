package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/oceanwatch/errors"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/models"
	"github.com/techagentng/oceanwatch/server/response"
	"github.com/techagentng/oceanwatch/services"
)

const DefaultRadiusKm = 50

func (s *Server) handleAddReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft models.ReportDraft
		if err := decode(c, &draft); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		if draft.Reporter == "" {
			draft.Reporter = currentUser(c)
		}
		report, err := s.ReportService.AddReport(draft)
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "report submitted", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := s.ReportService.GetReport(c.Param("id"))
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "report retrieved", http.StatusOK, report, nil)
	}
}

func (s *Server) handleUpdateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.StatusRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		report, err := s.ReportService.UpdateStatus(c.Param("id"), req.Status, currentUser(c))
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "status updated", http.StatusOK, report, nil)
	}
}

func (s *Server) handleAddComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CommentRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		role := req.Role
		if role == "" {
			role = c.GetString(ctxRole)
		}
		report, err := s.ReportService.AddComment(c.Param("id"), req.Content, currentUser(c), role)
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "comment added", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleUpdateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}
		var patch models.ReportPatch
		if err := json.Unmarshal(body, &patch); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}
		report, err := s.ReportService.UpdateReport(c.Param("id"), patch, currentUser(c))
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "report updated", http.StatusOK, report, nil)
	}
}

func (s *Server) handleFilterReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		spec, userLocation := parseFilterSpec(c, s.location())
		var provider geo.LocationProvider = s.Locations
		if userLocation != nil {
			provider = geo.StaticLocationProvider{Point: userLocation}
		}
		if spec.Proximity.Enabled && spec.Proximity.Center == nil {
			spec.Proximity.Center = geo.Resolve(c.Request.Context(), provider)
		}

		reports, err := s.ReportService.Filter(c.Request.Context(), spec, provider)
		if err != nil {
			status, e := serviceError(err)
			response.JSON(c, "", status, nil, e)
			return
		}
		response.JSON(c, "reports retrieved", http.StatusOK, gin.H{
			"count":   len(reports),
			"filter":  spec,
			"reports": reports,
		}, nil)
	}
}

func (s *Server) location() *time.Location {
	if s.Config == nil {
		return time.UTC
	}
	return s.Config.Location()
}

// parseFilterSpec reads a FilterSpec from the query string. Malformed values
// are treated as absent so the filter degrades instead of failing.
func parseFilterSpec(c *gin.Context, loc *time.Location) (models.FilterSpec, *models.Point) {
	spec := models.DefaultFilterSpec()
	spec.Type = c.DefaultQuery("type", models.All)
	spec.Severity = c.DefaultQuery("severity", models.All)
	spec.Status = c.DefaultQuery("status", models.All)
	spec.Region = c.DefaultQuery("region", models.All)
	spec.DateRange = models.DateRange(c.DefaultQuery("date_range", string(models.DateRange24h)))
	spec.CustomDateRange.Start = parseTime(c.Query("start"), loc, false)
	spec.CustomDateRange.End = parseTime(c.Query("end"), loc, true)

	spec.Proximity.Enabled, _ = strconv.ParseBool(c.Query("proximity"))
	spec.Proximity.Center = parsePoint(c.Query("center_lat"), c.Query("center_lng"))
	spec.Proximity.RadiusKm = DefaultRadiusKm
	if r, err := strconv.ParseFloat(c.Query("radius_km"), 64); err == nil && r >= 0 {
		spec.Proximity.RadiusKm = r
	}

	return spec, parsePoint(c.Query("user_lat"), c.Query("user_lng"))
}

// parseTime accepts RFC3339 or a bare date. A bare end date covers the whole day.
func parseTime(v string, loc *time.Location, endOfDay bool) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t
}

func parsePoint(lat, lng string) *models.Point {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil
	}
	return &models.Point{Lat: la, Lng: ln}
}

// serviceError maps core errors to an HTTP status and an *errs.Error.
func serviceError(err error) (int, error) {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		return http.StatusNotFound, errs.New(err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrEmptyPatch),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrMissingType):
		return http.StatusBadRequest, errs.New(err.Error(), http.StatusBadRequest)
	}
	var unknown *models.UnknownFieldError
	var invalid *models.InvalidValueError
	if errors.As(err, &unknown) || errors.As(err, &invalid) {
		return http.StatusBadRequest, errs.New(err.Error(), http.StatusBadRequest)
	}
	return http.StatusInternalServerError, errs.ErrInternalServerError
}
