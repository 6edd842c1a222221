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

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) List(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.articleService.List(params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articleService.Get(c.Param("slug"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) Create(c *gin.Context) {
	bot, _ := middleware.CurrentBot(c)

	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Helper.ValidateStruct(c, req) {
		return
	}

	article, err := h.articleService.Create(req, bot.ID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	bot, _ := middleware.CurrentBot(c)

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, err := h.articleService.Update(c.Param("slug"), req, bot.ID)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) History(c *gin.Context) {
	versions, err := h.articleService.History(c.Param("slug"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *ArticleHandler) GetVersion(c *gin.Context) {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil || versionNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}

	version, content, err := h.articleService.VersionAt(c.Param("slug"), versionNumber)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version": version,
		"content": content,
	})
}

func (h *ArticleHandler) Flag(c *gin.Context) {
	if _, err := h.articleService.Flag(c.Param("slug")); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article flagged for admin review"})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.articleService.Delete(articleID); err != nil {
		h.Helper.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func (h *ArticleHandler) Rate(c *gin.Context) {
	bot, _ := middleware.CurrentBot(c)

	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.articleService.Rate(c.Param("slug"), bot.ID, *req.Useful)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}
