package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moltpedia/helper"
	"moltpedia/middleware"
	"moltpedia/models"
	"moltpedia/services"
)

type SuggestionHandler struct {
	suggestionService services.SuggestionService
	Helper            *helper.HTTPHelper
}

func NewSuggestionHandler(suggestionService services.SuggestionService, h *helper.HTTPHelper) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService, Helper: h}
}

func (h *SuggestionHandler) List(c *gin.Context) {
	var params models.SuggestionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.suggestionService.List(params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *SuggestionHandler) Get(c *gin.Context) {
	suggestionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.suggestionService.Get(suggestionID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *SuggestionHandler) Create(c *gin.Context) {
	bot, _ := middleware.CurrentBot(c)

	var req models.SuggestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Helper.ValidateStruct(c, req) {
		return
	}

	suggestion, err := h.suggestionService.Create(req, bot.ID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, suggestion)
}

func (h *SuggestionHandler) Vote(c *gin.Context) {
	suggestionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	bot, _ := middleware.CurrentBot(c)

	var req models.SuggestionVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.suggestionService.Vote(suggestionID, bot.ID, *req.IsUpvote)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SuggestionHandler) Comment(c *gin.Context) {
	suggestionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	bot, _ := middleware.CurrentBot(c)

	var req models.SuggestionCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.suggestionService.Comment(suggestionID, bot.ID, req.Content)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *SuggestionHandler) UpdateStatus(c *gin.Context) {
	suggestionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.SuggestionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := h.suggestionService.SetStatus(suggestionID, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
