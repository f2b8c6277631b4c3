package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loadlink/internal/access"
	"loadlink/internal/apperrors"
	"loadlink/internal/config"
	"loadlink/internal/middleware"
	"loadlink/internal/models"
)

// CreateTruck registers a truck for the caller's carrier organization.
// New trucks start PENDING and must be approved before posting.
func CreateTruck(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermTruckManage); err != nil {
		fail(c, err)
		return
	}
	if actor.OrganizationID == 0 {
		fail(c, apperrors.Forbidden("You must belong to a carrier organization to register trucks"))
		return
	}

	var input struct {
		RegistrationNo string  `json:"registration_no" binding:"required"`
		TruckType      string  `json:"truck_type"`
		CapacityKg     float64 `json:"capacity_kg"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck input: " + err.Error()})
		return
	}

	truck := models.Truck{
		RegistrationNo: input.RegistrationNo,
		TruckType:      input.TruckType,
		CapacityKg:     input.CapacityKg,
		CarrierOrgID:   actor.OrganizationID,
		Approval:       models.TruckApprovalPending,
	}
	if err := config.DB.Create(&truck).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create truck: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"truck": truck})
}

// GetMyTrucks lists the caller organization's fleet.
func GetMyTrucks(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequireFleetAccess(actor); err != nil {
		fail(c, err)
		return
	}

	var trucks []models.Truck
	if err := config.DB.Where("carrier_org_id = ?", actor.OrganizationID).Find(&trucks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching trucks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trucks": trucks})
}

// ListTrucks is administrative: the whole fleet, unfiltered. Shippers
// are shut out of the raw fleet entirely.
func ListTrucks(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequireFleetAccess(actor); err != nil {
		fail(c, err)
		return
	}

	var trucks []models.Truck
	if err := config.DB.Find(&trucks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trucks: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trucks})
}

// SetTruckApproval is the admin verification decision on a truck.
func SetTruckApproval(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := access.RequirePermission(actor, access.PermTruckApprove); err != nil {
		fail(c, err)
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Approval string `json:"approval" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	approval := models.TruckApproval(input.Approval)
	if approval != models.TruckApprovalApproved && approval != models.TruckApprovalRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approval must be APPROVED or REJECTED"})
		return
	}

	var truck models.Truck
	if err := config.DB.First(&truck, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Truck not found"})
		return
	}

	truck.Approval = approval
	if err := config.DB.Save(&truck).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update truck approval"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"truck": truck})
}
