package api

import (
	"net/http"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/service/slots"
	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	service slots.SlotUseCase
}

type slotsResponse struct {
	Slots []domain.Slot `json:"slots"`
}

func NewSlotHandler(service slots.SlotUseCase) *SlotHandler {
	return &SlotHandler{service: service}
}

// Register mounts public reads on router and admin writes on admin.
func (h *SlotHandler) Register(router *gin.RouterGroup, admin *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/specialist/:specialistId", h.listBySpecialist)

	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *SlotHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, slotsResponse{Slots: result})
}

func (h *SlotHandler) get(c *gin.Context) {
	slot, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *SlotHandler) listBySpecialist(c *gin.Context) {
	result, err := h.service.ListBySpecialist(c.Request.Context(), c.Param("specialistId"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, slotsResponse{Slots: result})
}

func (h *SlotHandler) create(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req slots.CreateSlotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *SlotHandler) update(c *gin.Context) {
	var req slots.UpdateSlotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *SlotHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.Status(http.StatusNoContent)
}
