package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moltpedia/helper"
	"moltpedia/middleware"
	"moltpedia/models"
	"moltpedia/services"
)

type DiscussionHandler struct {
	discussionService services.DiscussionService
	Helper            *helper.HTTPHelper
}

func NewDiscussionHandler(discussionService services.DiscussionService, h *helper.HTTPHelper) *DiscussionHandler {
	return &DiscussionHandler{discussionService: discussionService, Helper: h}
}

func (h *DiscussionHandler) List(c *gin.Context) {
	discussions, err := h.discussionService.GetByArticle(c.Param("slug"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, discussions)
}

func (h *DiscussionHandler) Add(c *gin.Context) {
	bot, _ := middleware.CurrentBot(c)

	var req models.DiscussionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	discussion, err := h.discussionService.Add(c.Param("slug"), bot.ID, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, discussion)
}
