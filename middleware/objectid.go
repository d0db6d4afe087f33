package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateObjectID rejects requests whose :param is not a Mongo ObjectID.
func ValidateObjectID(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !primitive.IsValidObjectID(c.Param(param)) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
			return
		}
		c.Next()
	}
}
