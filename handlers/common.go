package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"blog/assets"
	"blog/database"
	"blog/middleware"
	"blog/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 30 * time.Second
)

// Handler holds the services behind the HTTP routes
type Handler struct {
	Posts         *services.PostService
	Comments      *services.CommentService
	Categories    *services.CategoryService
	Auth          *services.AuthService
	Subscriptions database.SubscriptionStore
	Stager        *assets.Stager

	VAPIDPublicKey string
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// identity returns the authenticated caller; routes that call it sit
// behind JWTAuthMiddleware.
func identity(c *gin.Context) (services.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "no token provided, access denied"})
	}
	return id, ok
}

// paramID parses :id. ValidateObjectID normally rejects bad ids first.
func paramID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps service errors to status codes. Anything unexpected is
// logged and answered with fallback.
func respondError(c *gin.Context, op, fallback string, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		forbidden    *services.ForbiddenError
		conflict     *services.ConflictError
		unauthorized *services.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": forbidden.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"message": conflict.Message})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": unauthorized.Message})
	case errors.Is(err, assets.ErrImageTooLarge), errors.Is(err, assets.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		log.Printf("[%s] %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
