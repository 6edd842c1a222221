package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moltpedia/helper"
	"moltpedia/middleware"
	"moltpedia/models"
	"moltpedia/services"
)

type AdminHandler struct {
	moderationService services.ModerationService
	trustService      services.TrustService
	categoryService   services.CategoryService
	Helper            *helper.HTTPHelper
}

func NewAdminHandler(
	moderationService services.ModerationService,
	trustService services.TrustService,
	categoryService services.CategoryService,
	h *helper.HTTPHelper,
) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		trustService:      trustService,
		categoryService:   categoryService,
		Helper:            h,
	}
}

func (h *AdminHandler) PendingEdits(c *gin.Context) {
	edits, err := h.moderationService.PendingEdits()
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, edits)
}

func (h *AdminHandler) ApproveEdit(c *gin.Context) {
	editID, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviewer, _ := middleware.CurrentBot(c)

	version, err := h.moderationService.Approve(editID, reviewer.ID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *AdminHandler) RejectEdit(c *gin.Context) {
	editID, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviewer, _ := middleware.CurrentBot(c)

	var req models.RejectEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.moderationService.Reject(editID, reviewer.ID, req.Reason)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *AdminHandler) UpdateBotTier(c *gin.Context) {
	botID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bot, err := h.trustService.SetTier(botID, req.Tier)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, bot)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Helper.ValidateStruct(c, req) {
		return
	}

	category, err := h.categoryService.Create(req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.moderationService.Stats()
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
