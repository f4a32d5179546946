package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
	"github.com/mohammedadiga/newRoodxServer/internal/handler/http/middleware"
	"github.com/mohammedadiga/newRoodxServer/internal/service"
	"github.com/mohammedadiga/newRoodxServer/internal/utils/metrics"
)

// AuthHandler exposes the account lifecycle endpoints.
type AuthHandler struct {
	auth      *service.AuthService
	passwords *service.PasswordService
	cookies   cookieWriter
	errors    translator
	logger    *zap.Logger
}

// NewAuthHandler builds the lifecycle handler.
func NewAuthHandler(
	auth *service.AuthService,
	passwords *service.PasswordService,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		passwords: passwords,
		cookies:   cookieWriter{cfg: cfg},
		errors:    translator{logger: logger, production: cfg.IsProduction()},
		logger:    logger,
	}
}

type checkRequest struct {
	UserInfo string `json:"userInfo" binding:"required"`
}

type registerRequest struct {
	AccountType     string `json:"accountType" binding:"required,oneof=personal company"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	Companyname     string `json:"companyname"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Birthday        string `json:"birthday"`
	Date            string `json:"date"`
}

type activateRequest struct {
	ActivationToken string `json:"activationToken" binding:"required"`
	ActivationCode  string `json:"activationCode" binding:"required"`
	UserAgent       string `json:"userAgent"`
}

type loginRequest struct {
	UserInfo  string `json:"userInfo" binding:"required"`
	Password  string `json:"password" binding:"required"`
	UserAgent string `json:"userAgent"`
}

type forgotPasswordRequest struct {
	UserInfo string `json:"userInfo" binding:"required"`
}

type resetPasswordRequest struct {
	UserID          string `json:"userId" binding:"required"`
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// Check probes availability of an email or phone before registration.
func (h *AuthHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.badRequest(c, "userInfo is required")
		return
	}

	result, err := h.auth.CheckUser(c.Request.Context(), req.UserInfo)
	if err != nil {
		h.errors.handle(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Register validates the candidate and issues an activation ticket. Nothing
// is persisted until the ticket is consumed.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RegistrationAttemptsTotal.WithLabelValues("invalid").Inc()
		h.errors.badRequest(c, "Invalid registration payload")
		return
	}
	if req.Password != req.ConfirmPassword {
		metrics.RegistrationAttemptsTotal.WithLabelValues("invalid").Inc()
		h.errors.badRequest(c, "Passwords do not match")
		return
	}

	ticket, err := h.auth.Register(c.Request.Context(), models.CandidateUser{
		AccountType: req.AccountType,
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Companyname: req.Companyname,
		Username:    req.Username,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Birthday:    req.Birthday,
		Date:        req.Date,
	})
	if err != nil {
		metrics.RegistrationAttemptsTotal.WithLabelValues("failure").Inc()
		h.errors.handle(c, err)
		return
	}

	metrics.RegistrationAttemptsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, ticket)
}

// Activate consumes the activation ticket, creates the account and signs the
// first token pair into cookies.
func (h *AuthHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.badRequest(c, "activationToken and activationCode are required")
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	pair, user, err := h.auth.Activate(c.Request.Context(), req.ActivationToken, req.ActivationCode, userAgent)
	if err != nil {
		h.errors.handle(c, err)
		return
	}

	h.cookies.setAuthCookies(c, pair)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account activated successfully",
		"user":    user.Public(),
	})
}

// Login authenticates a user and opens a session, unless the account has 2FA
// enabled, in which case only the mfaRequired signal comes back.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		h.errors.badRequest(c, "userInfo and password are required")
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	result, err := h.auth.Login(c.Request.Context(), req.UserInfo, req.Password, userAgent)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		h.errors.handle(c, err)
		return
	}

	if result.MFARequired {
		metrics.LoginAttemptsTotal.WithLabelValues("mfa_required").Inc()
		c.JSON(http.StatusOK, gin.H{
			"message":     "Two-factor authentication required",
			"mfaRequired": true,
		})
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.cookies.setAuthCookies(c, result.Tokens)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful",
		"mfaRequired": false,
	})
}

// Refresh mints a new access token from the refreshToken cookie, rotating
// the refresh token when the session nears expiry.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("missing").Inc()
		RespondWithError(c, http.StatusUnauthorized, "Refresh token not found",
			domainErrors.CodeTokenNotFound, h.logger)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		h.errors.handle(c, err)
		return
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	h.cookies.setAuthCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

// Logout revokes the caller's session and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)
	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		h.errors.handle(c, err)
		return
	}

	h.cookies.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword starts the reset flow and returns the masked contact the
// client may show while the code travels out of band.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.badRequest(c, "userInfo is required")
		return
	}

	result, err := h.passwords.Forgot(c.Request.Context(), req.UserInfo)
	if err != nil {
		metrics.PasswordResetTotal.WithLabelValues("forgot_failure").Inc()
		h.errors.handle(c, err)
		return
	}

	metrics.PasswordResetTotal.WithLabelValues("forgot_success").Inc()
	c.JSON(http.StatusOK, result)
}

// ActivatePassword consumes the reset token+code and hands back the
// single-use ticket authorizing the actual password change.
func (h *AuthHandler) ActivatePassword(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.badRequest(c, "activationToken and activationCode are required")
		return
	}

	ticket, err := h.passwords.ActivateReset(c.Request.Context(), req.ActivationToken, req.ActivationCode)
	if err != nil {
		h.errors.handle(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ResetPassword changes the password given a live verified ticket and logs
// the account out everywhere.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.badRequest(c, "Invalid reset payload")
		return
	}
	if req.Password != req.ConfirmPassword {
		h.errors.badRequest(c, "Passwords do not match")
		return
	}

	if err := h.passwords.Reset(c.Request.Context(), req.UserID, req.Token, req.Password); err != nil {
		metrics.PasswordResetTotal.WithLabelValues("reset_failure").Inc()
		h.errors.handle(c, err)
		return
	}

	metrics.PasswordResetTotal.WithLabelValues("reset_success").Inc()
	h.cookies.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
