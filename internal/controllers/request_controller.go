package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loadlink/internal/middleware"
	"loadlink/internal/models"
	"loadlink/internal/workflow"
)

type createRequestInput struct {
	LoadID         uint   `json:"load_id" binding:"required"`
	TruckID        uint   `json:"truck_id" binding:"required"`
	Notes          string `json:"notes"`
	ExpiresInHours int    `json:"expires_in_hours"`
}

// CreateLoadRequest lets a carrier propose one of its trucks for a
// posted load.
func CreateLoadRequest(c *gin.Context) {
	var input createRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	req, err := requestEngine.CreateLoadRequest(c.Request.Context(), actor, workflow.CreateParams{
		LoadID:    input.LoadID,
		TruckID:   input.TruckID,
		Notes:     input.Notes,
		ExpiresIn: time.Duration(input.ExpiresInHours) * time.Hour,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// CreateTruckRequest lets a shipper propose a posted truck for one of
// its own loads.
func CreateTruckRequest(c *gin.Context) {
	var input createRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	req, err := requestEngine.CreateTruckRequest(c.Request.Context(), actor, workflow.CreateParams{
		LoadID:    input.LoadID,
		TruckID:   input.TruckID,
		Notes:     input.Notes,
		ExpiresIn: time.Duration(input.ExpiresInHours) * time.Hour,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// RespondToRequest approves or rejects a pending request. The kind
// URL segment selects the direction: "load" or "truck".
func RespondToRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var kind models.RequestKind
	switch c.Param("kind") {
	case "load":
		kind = models.RequestKindLoad
	case "truck":
		kind = models.RequestKindTruck
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request kind must be load or truck"})
		return
	}

	var input struct {
		Action        string `json:"action" binding:"required"`
		ResponseNotes string `json:"response_notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	result, err := requestEngine.Respond(c.Request.Context(), actor, kind, id,
		workflow.RespondAction(input.Action), input.ResponseNotes)
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{"request": result.Request, "request_id": result.RequestID, "kind": result.Kind}
	if result.Trip != nil {
		body["trip"] = result.Trip
		body["load"] = result.Load
	}
	c.JSON(http.StatusOK, body)
}

// ListRequests returns both directions of requests involving the
// caller's organization, with expiry folded in at read time.
func ListRequests(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	loadReqs, truckReqs, err := requestsStore.ListForOrg(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch requests"})
		return
	}

	now := time.Now().UTC()
	loadViews := make([]gin.H, 0, len(loadReqs))
	for i := range loadReqs {
		loadViews = append(loadViews, gin.H{
			"request": loadReqs[i],
			"status":  workflow.EffectiveStatus(&loadReqs[i].RequestCore, now),
		})
	}
	truckViews := make([]gin.H, 0, len(truckReqs))
	for i := range truckReqs {
		truckViews = append(truckViews, gin.H{
			"request": truckReqs[i],
			"status":  workflow.EffectiveStatus(&truckReqs[i].RequestCore, now),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"load_requests":  loadViews,
		"truck_requests": truckViews,
	})
}
