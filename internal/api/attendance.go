package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logesh2496/imayavarman-silambam/internal/report"
)

func (h *Handlers) attendanceMatrix(c *gin.Context) {
	month, err := parseMonth(c.Query("month"))
	if err != nil {
		respondBadRequest(c, "invalid month, expected YYYY-MM")
		return
	}
	m, err := h.reports.Month(c.Request.Context(), month)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handlers) exportAttendanceMatrix(c *gin.Context) {
	month, err := parseMonth(c.Query("month"))
	if err != nil {
		respondBadRequest(c, "invalid month, expected YYYY-MM")
		return
	}
	m, err := h.reports.Month(c.Request.Context(), month)
	if err != nil {
		respondErr(c, err)
		return
	}
	data, err := report.ExportXLSX(m)
	if err != nil {
		respondErr(c, err)
		return
	}
	filename := fmt.Sprintf("attendance-%s.xlsx", m.Month)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// markAllBody is the request body for POST /api/attendance/mark-all.
type markAllBody struct {
	Date    *time.Time `json:"date"`
	ClassID string     `json:"classId"`
}

func (h *Handlers) markAllPresent(c *gin.Context) {
	var body markAllBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}
	date := time.Now()
	if body.Date != nil {
		date = *body.Date
	}
	created, err := h.logs.MarkAllPresent(c.Request.Context(), date, body.ClassID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01", s)
}
