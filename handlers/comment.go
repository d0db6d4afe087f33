package handlers

import (
	"net/http"

	"blog/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateComment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	comment, err := h.Comments.Create(ctx, req, caller)
	if err != nil {
		respondError(c, "CreateComment", "Error creating comment", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) GetComments(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	comments, err := h.Comments.List(ctx)
	if err != nil {
		respondError(c, "GetComments", "Error fetching comments", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if err := h.Comments.Delete(ctx, id, caller); err != nil {
		respondError(c, "DeleteComment", "Error deleting comment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "comment has been deleted",
		"commentId": id.Hex(),
	})
}

func (h *Handler) UpdateComment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	comment, err := h.Comments.Update(ctx, id, req, caller)
	if err != nil {
		respondError(c, "UpdateComment", "Error updating comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}
