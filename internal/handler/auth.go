package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/category"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/middleware"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Email           string `json:"email" binding:"required"`
	Name            string `json:"name" binding:"required,max=100"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Register creates the user and seeds their workspace: the default
// category set, a starter checking account and a settings row, all in
// one transaction.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(req.Email) || len(req.Email) > 120 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid email address")
		return
	}
	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"password must be 8-32 characters with upper, lower and digit")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check email")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeDuplicate, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	var user models.User
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		user = models.User{
			Email:        req.Email,
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: string(hash),
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := category.SeedDefaults(tx, user.ID); err != nil {
			return err
		}
		acc := models.Account{
			UserID:         user.ID,
			Name:           "Main Account",
			Type:           models.AccountChecking,
			Currency:       "USD",
			InitialBalance: decimal.Zero,
			CurrentBalance: decimal.Zero,
			IsActive:       true,
		}
		if err := tx.Create(&acc).Error; err != nil {
			return err
		}
		settings := models.DefaultSettings(user.ID)
		return tx.Create(&settings).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to issue token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Password rule: 8-32 characters with upper, lower and digit.
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range pwd {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		// Same message as a wrong password so accounts cannot be probed.
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid email or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid email or password")
		return
	}

	now := time.Now().UTC()
	h.DB.Model(&user).Update("last_login", now)

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to issue token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return
	}
	util.Success(c, util.Response{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
		"last_login": user.LastLogin,
	})
}
