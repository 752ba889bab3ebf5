package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logesh2496/imayavarman-silambam/internal/achievement"
	"github.com/logesh2496/imayavarman-silambam/internal/report"
)

func (h *Handlers) listAchievements(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.students.MustExist(ctx, id); err != nil {
		respondErr(c, err)
		return
	}
	achievements, err := h.achievements.ListByStudent(ctx, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	if achievements == nil {
		achievements = []achievement.Achievement{}
	}
	c.JSON(http.StatusOK, achievements)
}

// createAchievementBody is the request body for
// POST /api/students/:id/achievements; the student id comes from the path.
type createAchievementBody struct {
	Level       string `json:"level"`
	Medal       string `json:"medal"`
	Description string `json:"description"`
}

func (h *Handlers) createAchievement(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.students.MustExist(ctx, id); err != nil {
		respondErr(c, err)
		return
	}
	var body createAchievementBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	created, err := h.achievements.Create(ctx, achievement.CreateInput{
		StudentID:   id,
		Level:       body.Level,
		Medal:       body.Medal,
		Description: body.Description,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) medalTally(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.students.MustExist(ctx, id); err != nil {
		respondErr(c, err)
		return
	}
	achievements, err := h.achievements.ListByStudent(ctx, id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report.TallyMedals(achievements))
}
