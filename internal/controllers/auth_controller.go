package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schooltrip_tracker/internal/config"
	"schooltrip_tracker/internal/middleware"
	"schooltrip_tracker/internal/models"
	"schooltrip_tracker/internal/services"
)

type signupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`

	// driver fields
	SchoolID      uint   `json:"school_id"`
	LicenseNumber string `json:"license_number"`
	LicenseType   string `json:"license_type"`

	// parent fields
	Occupation        string `json:"occupation"`
	WorkAddress       string `json:"work_address"`
	EmergencyContact  string `json:"emergency_contact"`
	PreferredLanguage string `json:"preferred_language"`
}

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
	input.Phone = services.NormalizePhone(input.Phone)

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start transaction"})
		return
	}

	user, err := createUserRecord(tx, input, hashedPassword)
	if err != nil {
		tx.Rollback()
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user: " + err.Error()})
		return
	}

	err = createActorRecord(tx, &user, input)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "required for driver role") ||
			strings.Contains(err.Error(), "school with the provided school_id does not exist") ||
			strings.Contains(err.Error(), "driver must be assigned to a school_id") ||
			strings.Contains(err.Error(), "required for parent role") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create actor record: " + err.Error()})
		}
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction: " + err.Error()})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	responseUser := prepareUserResponse(user)

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  responseUser,
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
	query := config.DB.Where("email = ?", body.Email).
		Preload("Driver").
		Preload("Parent")

	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  prepareUserResponse(user),
	})
}

func validateAndNormalizeRole(roleInput string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(roleInput))
	if role == "" {
		role = models.RoleParent
	}
	if !models.ValidRole(role) {
		return "", errors.New("invalid role")
	}
	return role, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func createUserRecord(tx *gorm.DB, input signupInput, hashedPassword string) (models.User, error) {
	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Phone:    input.Phone,
		Role:     input.Role,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func createActorRecord(tx *gorm.DB, user *models.User, input signupInput) error {
	switch user.Role {
	case models.RoleDriver:
		if input.LicenseNumber == "" {
			return errors.New("license_number is required for driver role")
		}
		if input.SchoolID == 0 {
			return errors.New("driver must be assigned to a school_id")
		}
		var school models.School
		if result := tx.First(&school, input.SchoolID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errors.New("school with the provided school_id does not exist")
			}
			return result.Error
		}

		driver := models.Driver{
			UserID:           user.ID,
			SchoolID:         input.SchoolID,
			Name:             input.Name,
			Phone:            input.Phone,
			LicenseNumber:    input.LicenseNumber,
			LicenseType:      input.LicenseType,
			EmergencyContact: services.NormalizePhone(input.EmergencyContact),
		}
		if err := tx.Create(&driver).Error; err != nil {
			return err
		}
		user.Driver = &driver
	case models.RoleParent:
		if user.Phone == "" {
			return errors.New("phone is required for parent role")
		}
		parent := models.Parent{
			UserID:            user.ID,
			Occupation:        input.Occupation,
			WorkAddress:       input.WorkAddress,
			EmergencyContact:  services.NormalizePhone(input.EmergencyContact),
			PreferredLanguage: input.PreferredLanguage,
		}
		if err := tx.Create(&parent).Error; err != nil {
			return err
		}
		user.Parent = &parent
	}
	return nil
}

func prepareUserResponse(user models.User) gin.H {
	responseUser := gin.H{
		"ID":        user.ID,
		"CreatedAt": user.CreatedAt,
		"UpdatedAt": user.UpdatedAt,
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"role":      user.Role,
	}

	if user.Driver != nil {
		responseUser["driver"] = gin.H{
			"ID":             user.Driver.ID,
			"CreatedAt":      user.Driver.CreatedAt,
			"UpdatedAt":      user.Driver.UpdatedAt,
			"name":           user.Driver.Name,
			"phone":          user.Driver.Phone,
			"license_number": user.Driver.LicenseNumber,
			"school_id":      user.Driver.SchoolID,
		}
		responseUser["school_id"] = user.Driver.SchoolID
	}
	if user.Parent != nil {
		responseUser["parent"] = gin.H{
			"ID":                 user.Parent.ID,
			"CreatedAt":          user.Parent.CreatedAt,
			"UpdatedAt":          user.Parent.UpdatedAt,
			"occupation":         user.Parent.Occupation,
			"emergency_contact":  user.Parent.EmergencyContact,
			"preferred_language": user.Parent.PreferredLanguage,
		}
	}
	return responseUser
}
