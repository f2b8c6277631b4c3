package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadlink/internal/middleware"
)

// SubmitPod records the carrier's proof-of-delivery image URL for a
// load on an active trip.
func SubmitPod(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		ImageURL string `json:"image_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	load, err := podWF.SubmitPod(c.Request.Context(), id, input.ImageURL, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": load})
}

// VerifyPod is the shipper's sign-off on a submitted POD. Completion
// of the trip stays blocked until this succeeds.
func VerifyPod(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	load, err := podWF.VerifyPod(c.Request.Context(), id, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": load})
}
