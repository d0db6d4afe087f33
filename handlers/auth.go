package handlers

import (
	"net/http"

	"blog/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	profile, err := h.Auth.Register(ctx, req)
	if err != nil {
		respondError(c, "Register", "Error registering user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "you registered successfully, please log in",
		"user":    profile,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	session, err := h.Auth.Login(ctx, req)
	if err != nil {
		respondError(c, "Login", "Error logging in", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetUserProfile handles GET /api/users/profile/:id
func (h *Handler) GetUserProfile(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	profile, err := h.Auth.Profile(ctx, id)
	if err != nil {
		respondError(c, "GetUserProfile", "Error fetching profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
