package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/config"
	"loadlink/internal/middleware"
	"loadlink/internal/models"
	"loadlink/internal/workflow"
)

// CreateLoad registers a new load in DRAFT for the caller's shipper
// organization.
func CreateLoad(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermLoadCreate); err != nil {
		fail(c, err)
		return
	}
	if actor.OrganizationID == 0 {
		fail(c, apperrors.Forbidden("You must belong to a shipper organization to create loads"))
		return
	}

	var input struct {
		PickupCity       string  `json:"pickup_city" binding:"required"`
		DropoffCity      string  `json:"dropoff_city" binding:"required"`
		CargoDescription string  `json:"cargo_description"`
		WeightKg         float64 `json:"weight_kg" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid load input: " + err.Error()})
		return
	}

	load := models.Load{
		Reference:        models.NewLoadReference(),
		ShipperOrgID:     actor.OrganizationID,
		PickupCity:       input.PickupCity,
		DropoffCity:      input.DropoffCity,
		CargoDescription: input.CargoDescription,
		WeightKg:         input.WeightKg,
		Status:           models.LoadDraft,
	}
	if err := config.DB.Create(&load).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create load: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"load": load})
}

// ListLoads returns posted loads for browsing, or the caller's own
// loads when mine=true.
func ListLoads(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermLoadBrowse); err != nil {
		fail(c, err)
		return
	}

	query := config.DB.Order("created_at DESC")
	if c.Query("mine") == "true" {
		query = query.Where("shipper_org_id = ?", actor.OrganizationID)
	} else {
		query = query.Where("status = ?", models.LoadPosted)
	}

	var loads []models.Load
	if err := query.Find(&loads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch loads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": loads})
}

func GetLoad(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var load models.Load
	if err := config.DB.First(&load, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Load not found"})
		return
	}

	actor := middleware.ActorFrom(c)
	v := access.Resolve(actor, access.ResourceOwners{ShipperOrgID: load.ShipperOrgID})
	if !v.CanView && load.Status != models.LoadPosted {
		fail(c, apperrors.Forbidden("You do not have access to this load"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": load})
}

// UpdateLoad edits a load's shipment details. Loads are editable only
// in DRAFT, POSTED or UNPOSTED; from ASSIGNED on, the state machine is
// the only writer, so the edit runs through the workflow under a row
// lock rather than a plain read-then-save.
func UpdateLoad(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		PickupCity       *string  `json:"pickup_city"`
		DropoffCity      *string  `json:"dropoff_city"`
		CargoDescription *string  `json:"cargo_description"`
		WeightKg         *float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	load, err := loadWF.Edit(c.Request.Context(), id, workflow.LoadEdit{
		PickupCity:       input.PickupCity,
		DropoffCity:      input.DropoffCity,
		CargoDescription: input.CargoDescription,
		WeightKg:         input.WeightKg,
	}, actor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": load})
}

func DeleteLoad(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.ActorFrom(c)
	if err := loadWF.Delete(c.Request.Context(), id, actor); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Load deleted"})
}

// UpdateLoadStatus drives the shipper-originated edges of the load
// lifecycle through the state machine.
func UpdateLoadStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := middleware.ActorFrom(c)
	load, err := loadWF.UpdateStatus(c.Request.Context(), id, models.LoadStatus(input.Status), actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Load not found"})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": load})
}
