package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fourtravels/b2b-backend/internal/auth"
	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/internal/utils"
	"github.com/fourtravels/b2b-backend/pkg/jwt"
	"github.com/fourtravels/b2b-backend/pkg/validator"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	userRepo     *database.UserRepository
	jwtService   *jwt.Service
	auditService *services.AuditService
	credentials  *validator.CredentialsValidator
	bcryptCost   int
	accessExpiry int // seconds, reported in login responses
	logger       *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userRepo *database.UserRepository,
	jwtService *jwt.Service,
	auditService *services.AuditService,
	bcryptCost int,
	accessExpirySeconds int,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:     userRepo,
		jwtService:   jwtService,
		auditService: auditService,
		credentials:  validator.NewCredentialsValidator(),
		bcryptCost:   bcryptCost,
		accessExpiry: accessExpirySeconds,
		logger:       logger,
	}
}

// Login authenticates a user and returns access and refresh tokens
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	email, err := h.credentials.ValidateEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ipAddress := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)

	user, err := h.userRepo.GetUserByEmail(email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up user during login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	if user == nil {
		_ = h.auditService.LogLoginAttempt(nil, email, ipAddress, userAgent, false, "unknown email")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		_ = h.auditService.LogLoginAttempt(&user.ID, email, ipAddress, userAgent, false, "wrong password")
		h.logger.WithFields(logrus.Fields{
			"email": email,
			"ip":    ipAddress,
		}).Warn("Login failed: wrong password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		_ = h.auditService.LogLoginAttempt(&user.ID, email, ipAddress, userAgent, false, "account disabled")
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	response, err := h.buildLoginResponse(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	_ = h.auditService.LogLoginAttempt(&user.ID, email, ipAddress, userAgent, true, "")

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	}).Info("Login successful")

	c.JSON(http.StatusOK, response)
}

// RefreshToken issues a new token pair from a valid refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Warn("Token refresh failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	user, err := h.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up user during refresh")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		return
	}

	if user == nil || !user.IsActive {
		_ = h.auditService.LogTokenRefresh(claims.UserID, utils.GetRealIP(c), utils.GetUserAgent(c), false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	response, err := h.buildLoginResponse(user)
	if err != nil {
		h.logger.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		return
	}

	_ = h.auditService.LogTokenRefresh(user.ID, utils.GetRealIP(c), utils.GetUserAgent(c), true)

	c.JSON(http.StatusOK, response)
}

// Me returns the authenticated user's account
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.userRepo.GetUserByID(userCtx.UserID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"permissions": auth.Permissions(user.Role),
	})
}

// ChangePassword changes the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.credentials.ValidatePassword(req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetUserByID(userCtx.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), h.bcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash new password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	if err := h.userRepo.UpdatePasswordHash(user.ID, string(hash)); err != nil {
		h.logger.WithError(err).Error("Failed to store new password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	_ = h.auditService.LogPasswordChange(user.ID, utils.GetRealIP(c), utils.GetUserAgent(c))

	h.logger.WithField("user_id", user.ID).Info("Password changed")
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Register creates a new sub-agency account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	email, err := h.credentials.ValidateEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.credentials.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleSubAgency
	}
	if role != models.RoleAdmin && role != models.RoleSubAgency {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	existing, err := h.userRepo.GetUserByEmail(email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check existing email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	user, err := h.userRepo.CreateUser(req.AgencyName, email, string(hash), req.Phone, role, locale)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"email":       user.Email,
		"agency_name": user.AgencyName,
	}).Info("New account registered")

	c.JSON(http.StatusCreated, user)
}

// buildLoginResponse issues a token pair for user
func (h *AuthHandler) buildLoginResponse(user *models.User) (*models.LoginResponse, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role, user.AgencyName)
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    h.accessExpiry,
		User:         user,
	}, nil
}
