package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
)

func (h *Handlers) listStudentLogs(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.students.MustExist(ctx, id); err != nil {
		respondErr(c, err)
		return
	}
	logs, err := h.logs.ListByStudent(ctx, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if logs == nil {
		logs = []logbook.DailyLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// createLogBody is the request body for POST /api/students/:id/logs; the
// student id comes from the path.
type createLogBody struct {
	Date          *time.Time `json:"date"`
	Attended      *bool      `json:"attended"`
	LessonSummary string     `json:"lessonSummary"`
}

func (h *Handlers) createStudentLog(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.students.MustExist(ctx, id); err != nil {
		respondErr(c, err)
		return
	}
	var body createLogBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	created, err := h.logs.Create(ctx, logbook.CreateInput{
		StudentID:     id,
		Date:          body.Date,
		Attended:      body.Attended,
		LessonSummary: body.LessonSummary,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// listLogs serves /api/logs with either ?date= (one calendar day) or
// ?start=&end= (inclusive day range). Dates accept YYYY-MM-DD or RFC3339.
func (h *Handlers) listLogs(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		logs []logbook.DailyLog
		err  error
	)
	switch {
	case c.Query("date") != "":
		date, perr := parseDate(c.Query("date"))
		if perr != nil {
			respondBadRequest(c, "invalid date")
			return
		}
		logs, err = h.logs.ListByDate(ctx, date)
	case c.Query("start") != "" && c.Query("end") != "":
		start, perr := parseDate(c.Query("start"))
		if perr != nil {
			respondBadRequest(c, "invalid start date")
			return
		}
		end, perr := parseDate(c.Query("end"))
		if perr != nil {
			respondBadRequest(c, "invalid end date")
			return
		}
		logs, err = h.logs.ListByRange(ctx, start, end)
	default:
		respondBadRequest(c, "provide date or start and end")
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	if logs == nil {
		logs = []logbook.DailyLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handlers) deleteLog(c *gin.Context) {
	if err := h.logs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
