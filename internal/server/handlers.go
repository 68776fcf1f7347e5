package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/long-weekend-planner/internal/export"
	"github.com/username/long-weekend-planner/internal/store"
	"github.com/username/long-weekend-planner/internal/vacation"
)

const yearKey = "year"

// errorBody is the JSON shape of every error response
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// parseYear validates the :year path parameter and stores it on the context
func (s *Server) parseYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "Year must be a number between 1970 and 9999."})
		return
	}
	c.Set(yearKey, year)
	c.Next()
}

// fail maps domain errors onto HTTP statuses
func (s *Server) fail(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, store.ErrHolidayNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "Holiday not found."})
	case errors.Is(err, store.ErrDateTaken):
		c.JSON(http.StatusConflict, errorBody{Error: "Another holiday already uses this date.", Field: "date"})
	default:
		s.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal error."})
	}
}

func (s *Server) overview(c *gin.Context) (*vacation.Overview, bool) {
	ov, err := s.manager.Overview(c.GetInt(yearKey))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return ov, true
}

func (s *Server) getOverview(c *gin.Context) {
	if ov, ok := s.overview(c); ok {
		c.JSON(http.StatusOK, ov)
	}
}

func (s *Server) getLongWeekends(c *gin.Context) {
	if ov, ok := s.overview(c); ok {
		c.JSON(http.StatusOK, ov.LongWeekends)
	}
}

func (s *Server) getCandidates(c *gin.Context) {
	if ov, ok := s.overview(c); ok {
		c.JSON(http.StatusOK, ov.Candidates)
	}
}

func (s *Server) getPlan(c *gin.Context) {
	if ov, ok := s.overview(c); ok {
		c.JSON(http.StatusOK, ov.Plan)
	}
}

func (s *Server) getStats(c *gin.Context) {
	if ov, ok := s.overview(c); ok {
		c.JSON(http.StatusOK, ov.Stats)
	}
}

func (s *Server) exportICS(c *gin.Context) {
	ov, ok := s.overview(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, &ov.Result, time.Now()); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=long-weekends-%d.ics", ov.Year))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (s *Server) exportXLSX(c *gin.Context) {
	ov, ok := s.overview(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, &ov.Result); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=long-weekends-%d.xlsx", ov.Year))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) listHolidays(c *gin.Context) {
	holidays, err := s.manager.Holidays(c.GetInt(yearKey))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, holidays)
}

func (s *Server) addHoliday(c *gin.Context) {
	var input store.HolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid JSON body."})
		return
	}

	h, err := s.manager.AddHoliday(c.GetInt(yearKey), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (s *Server) updateHoliday(c *gin.Context) {
	var patch store.HolidayInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid JSON body."})
		return
	}

	h, err := s.manager.UpdateHoliday(c.GetInt(yearKey), c.Param("id"), patch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) toggleHoliday(c *gin.Context) {
	h, err := s.manager.ToggleHoliday(c.GetInt(yearKey), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) deleteHoliday(c *gin.Context) {
	if err := s.manager.DeleteHoliday(c.GetInt(yearKey), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) resetHolidays(c *gin.Context) {
	holidays, err := s.manager.ResetHolidays(c.GetInt(yearKey))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, holidays)
}

// preferencesRequest accepts paid_leaves as a JSON number or a string,
// the way a form field would send it.
type preferencesRequest struct {
	PaidLeaves    json.RawMessage `json:"paid_leaves"`
	DistanceWeeks *int            `json:"distance_weeks"`
}

type preferencesResponse struct {
	PaidLeaves    int `json:"paid_leaves"`
	DistanceWeeks int `json:"distance_weeks"`
}

func (s *Server) updatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid JSON body."})
		return
	}

	year := c.GetInt(yearKey)

	if len(req.PaidLeaves) > 0 && string(req.PaidLeaves) != "null" {
		raw := string(req.PaidLeaves)
		var text string
		if err := json.Unmarshal(req.PaidLeaves, &text); err == nil {
			raw = text
		}
		if _, err := s.manager.SetPaidLeaves(year, strings.TrimSpace(raw)); err != nil {
			s.fail(c, err)
			return
		}
	}

	if req.DistanceWeeks != nil {
		if _, err := s.manager.SetDistanceWeeks(year, *req.DistanceWeeks); err != nil {
			s.fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, preferencesResponse{
		PaidLeaves:    s.manager.PaidLeaves(year),
		DistanceWeeks: s.manager.DistanceWeeks(year),
	})
}
