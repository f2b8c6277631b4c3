package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loadlink/internal/config"
	"loadlink/internal/middleware"
	"loadlink/internal/models"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`

	// Organization bootstrap for shipper/carrier signups.
	OrgName         string `json:"org_name"`
	OrgContactEmail string `json:"org_contact_email"`
	OrgContactPhone string `json:"org_contact_phone"`
}

// SignupUser registers a user and, for shipper/carrier roles,
// bootstraps their organization and wallet in one transaction.
func SignupUser(c *gin.Context) {
	var input signupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateAndNormalizeRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Role = role

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	var user models.User
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var orgID uint
		if role == "SHIPPER" || role == "CARRIER" {
			if input.OrgName == "" {
				return errors.New("org_name is required for shipper and carrier signups")
			}
			kind := models.OrgKindShipper
			if role == "CARRIER" {
				kind = models.OrgKindCarrier
			}
			org := models.Organization{
				Name:         input.OrgName,
				Kind:         kind,
				Verification: models.OrgVerificationPending,
				ContactEmail: input.OrgContactEmail,
				ContactPhone: input.OrgContactPhone,
			}
			if err := tx.Create(&org).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Wallet{OrganizationID: org.ID}).Error; err != nil {
				return err
			}
			orgID = org.ID
		}

		user = models.User{
			Name:           input.Name,
			Email:          input.Email,
			Password:       string(hashed),
			Phone:          input.Phone,
			Role:           role,
			Status:         "PENDING_VERIFICATION",
			OrganizationID: orgID,
		}
		return tx.Create(&user).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		if strings.Contains(txErr.Error(), "required for shipper and carrier signups") {
			c.JSON(http.StatusBadRequest, gin.H{"error": txErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + txErr.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role, user.OrganizationID, user.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func LoginUser(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := config.DB.Where("email = ?", body.Email).Preload("Organization")
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		return
	}

	if user.Status == "SUSPENDED" {
		c.JSON(http.StatusForbidden, gin.H{"error": "account suspended"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role, user.OrganizationID, user.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func validateAndNormalizeRole(role string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(role))
	switch normalized {
	case "SHIPPER", "CARRIER", "DISPATCHER", "ADMIN":
		return normalized, nil
	case "":
		return "", errors.New("role is required")
	default:
		return "", errors.New("role must be one of SHIPPER, CARRIER, DISPATCHER, ADMIN")
	}
}
