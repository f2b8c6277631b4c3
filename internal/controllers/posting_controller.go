package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loadlink/internal/access"
	"loadlink/internal/middleware"
	"loadlink/internal/workflow"
)

// CreatePosting advertises a truck's availability. At most one active
// posting may exist per truck.
func CreatePosting(c *gin.Context) {
	var input struct {
		TruckID         uint      `json:"truck_id" binding:"required"`
		OriginCity      string    `json:"origin_city" binding:"required"`
		DestinationCity string    `json:"destination_city"`
		AvailableFrom   time.Time `json:"available_from"`
		ExpiresAt       time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid posting input: " + err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	posting, err := postingEngine.Create(c.Request.Context(), actor, workflow.PostingParams{
		TruckID:         input.TruckID,
		OriginCity:      input.OriginCity,
		DestinationCity: input.DestinationCity,
		AvailableFrom:   input.AvailableFrom,
		ExpiresAt:       input.ExpiresAt,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"posting": posting})
}

// ListPostings is the demand-side browse surface: active postings
// only. This is the one fleet view shippers are allowed.
func ListPostings(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermPostingBrowse); err != nil {
		fail(c, err)
		return
	}

	postings, err := postingsStore.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch postings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": postings})
}

// UnpostPosting withdraws an active posting.
func UnpostPosting(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	posting, err := postingEngine.Unpost(c.Request.Context(), actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posting": posting})
}
