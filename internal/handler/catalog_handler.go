package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// CatalogHandler manages lesson, class, teacher and room endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListLessons godoc
// @Summary List lessons
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *CatalogHandler) ListLessons(c *gin.Context) {
	lessons, err := h.service.ListLessons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// GetLesson godoc
// @Summary Get a lesson
// @Tags Catalog
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.service.GetLesson(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.LessonPayload true "Lesson"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *CatalogHandler) CreateLesson(c *gin.Context) {
	var req service.LessonPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.service.CreateLesson(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param payload body service.LessonPayload true "Lesson"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [put]
func (h *CatalogHandler) UpdateLesson(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.LessonPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.service.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags Catalog
// @Param id path int true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *CatalogHandler) DeleteLesson(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteLesson(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListClasses godoc
// @Summary List classes
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *CatalogHandler) ListClasses(c *gin.Context) {
	classes, err := h.service.ListClasses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// GetClass godoc
// @Summary Get a class
// @Tags Catalog
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [get]
func (h *CatalogHandler) GetClass(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// CreateClass godoc
// @Summary Create a class
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.ClassPayload true "Class"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *CatalogHandler) CreateClass(c *gin.Context) {
	var req service.ClassPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// UpdateClass godoc
// @Summary Update a class
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Class ID"
// @Param payload body service.ClassPayload true "Class"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *CatalogHandler) UpdateClass(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ClassPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	class, err := h.service.UpdateClass(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// DeleteClass godoc
// @Summary Delete a class
// @Tags Catalog
// @Param id path int true "Class ID"
// @Success 204
// @Router /classes/{id} [delete]
func (h *CatalogHandler) DeleteClass(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteClass(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.service.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// GetTeacher godoc
// @Summary Get a teacher
// @Tags Catalog
// @Produce json
// @Param id path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *CatalogHandler) GetTeacher(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.service.GetTeacher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// CreateTeacher godoc
// @Summary Create a teacher
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.TeacherPayload true "Teacher"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req service.TeacherPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher godoc
// @Summary Update a teacher
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Teacher ID"
// @Param payload body service.TeacherPayload true "Teacher"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *CatalogHandler) UpdateTeacher(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TeacherPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.service.UpdateTeacher(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// DeleteTeacher godoc
// @Summary Delete a teacher
// @Tags Catalog
// @Param id path int true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteTeacher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRooms godoc
// @Summary List shared rooms
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// GetRoom godoc
// @Summary Get a room
// @Tags Catalog
// @Produce json
// @Param id path int true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [get]
func (h *CatalogHandler) GetRoom(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.RoomPayload true "Room"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req service.RoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// UpdateRoom godoc
// @Summary Update a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param payload body service.RoomPayload true "Room"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *CatalogHandler) UpdateRoom(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RoomPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// DeleteRoom godoc
// @Summary Delete a room
// @Tags Catalog
// @Param id path int true "Room ID"
// @Success 204
// @Router /rooms/{id} [delete]
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
