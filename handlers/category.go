package handlers

import (
	"net/http"

	"blog/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateCategory(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	category, err := h.Categories.Create(ctx, req, caller)
	if err != nil {
		respondError(c, "CreateCategory", "Error creating category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) GetCategories(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		respondError(c, "GetCategories", "Error fetching categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	deleted, err := h.Categories.Delete(ctx, id)
	if err != nil {
		respondError(c, "DeleteCategory", "Error deleting category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "category has been deleted",
		"categoryId": deleted.Hex(),
	})
}
