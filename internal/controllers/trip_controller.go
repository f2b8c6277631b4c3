package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/config"
	"loadlink/internal/middleware"
	"loadlink/internal/models"
	"loadlink/internal/workflow"
)

// UpdateTripStatus advances a trip through its lifecycle. The load is
// synchronized in the same transaction; completion additionally
// settles the service fees.
func UpdateTripStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status        string `json:"status" binding:"required"`
		ReceiverName  string `json:"receiver_name"`
		ReceiverPhone string `json:"receiver_phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	result, err := tripMachine.Advance(c.Request.Context(), id, models.TripStatus(input.Status), actor, workflow.DeliveryPayload{
		ReceiverName:  input.ReceiverName,
		ReceiverPhone: input.ReceiverPhone,
	})
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"trip":        result.Trip,
		"load":        result.Load,
		"load_synced": result.LoadSynced,
	}
	if result.Settlement != nil {
		body["settlement"] = result.Settlement
	}
	c.JSON(http.StatusOK, body)
}

// ListTrips returns the trips visible to the caller's organization.
func ListTrips(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermTripView); err != nil {
		fail(c, err)
		return
	}

	var trips []models.Trip
	if err := config.DB.Preload("Load").Preload("Truck").
		Where("carrier_org_id = ? OR shipper_org_id = ?", actor.OrganizationID, actor.OrganizationID).
		Order("created_at DESC").
		Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch trips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

func GetTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var trip models.Trip
	if err := config.DB.Preload("Load").Preload("Truck").First(&trip, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	actor := middleware.ActorFrom(c)
	v := access.Resolve(actor, access.ResourceOwners{
		ShipperOrgID: trip.ShipperOrgID,
		CarrierOrgID: trip.CarrierOrgID,
	})
	if !v.CanView {
		fail(c, apperrors.Forbidden("You do not have access to this trip"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}
