package handlers

import (
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetVapidPublicKey(c *gin.Context) {
	if h.VAPIDPublicKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "VAPID public key not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.VAPIDPublicKey})
}

func (h *Handler) SubscribePush(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			P256dh string `json:"p256dh" binding:"required"`
			Auth   string `json:"auth" binding:"required"`
		} `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "endpoint and keys are required"})
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	sub := webpush.Subscription{
		Endpoint: req.Endpoint,
		Keys: webpush.Keys{
			P256dh: req.Keys.P256dh,
			Auth:   req.Keys.Auth,
		},
	}
	if err := h.Subscriptions.Upsert(ctx, caller.ID, sub); err != nil {
		respondError(c, "SubscribePush", "Failed to save subscription", err)
		return
	}

	log.Printf("Push subscription saved for user: %s", caller.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "push subscription saved successfully"})
}
