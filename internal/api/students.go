package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

func (h *Handlers) listStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handlers) createStudent(c *gin.Context) {
	var in student.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	created, err := h.students.Create(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) getStudent(c *gin.Context) {
	st, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if st == nil {
		respondNotFound(c, "Student not found")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handlers) updateStudent(c *gin.Context) {
	var in student.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	updated, err := h.students.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) deleteStudent(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
