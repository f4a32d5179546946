package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
	"github.com/mohammedadiga/newRoodxServer/internal/domain/models"
	"github.com/mohammedadiga/newRoodxServer/internal/events/kafka"
	"github.com/mohammedadiga/newRoodxServer/internal/infrastructure/security"
	"github.com/mohammedadiga/newRoodxServer/internal/repository/interfaces"
	"github.com/mohammedadiga/newRoodxServer/internal/utils/userinfo"
)

// Messages returned to clients as i18n keys.
const (
	MsgCheckEmail = "please_check_your_email"
	MsgCheckPhone = "please_check_your_phone_number"
)

// AuthService orchestrates the register/activate, login and refresh/logout
// flows. It owns no state beyond its collaborators; every step is one
// awaited operation against the store, cache or signer.
type AuthService struct {
	users         interfaces.UserRepository
	verifications *VerificationService
	tokens        *security.TokenService
	cache         interfaces.Cache
	events        kafka.Publisher
	logger        *zap.Logger
}

// NewAuthService wires the account lifecycle orchestrator.
func NewAuthService(
	users interfaces.UserRepository,
	verifications *VerificationService,
	tokens *security.TokenService,
	cache interfaces.Cache,
	events kafka.Publisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		verifications: verifications,
		tokens:        tokens,
		cache:         cache,
		events:        events,
		logger:        logger,
	}
}

// CheckResult is the availability-probe response.
type CheckResult struct {
	Message  string            `json:"message"`
	UserData userinfo.UserInfo `json:"userData"`
}

// CheckUser probes whether an email or phone is free before registration.
// Username inputs are rejected here: the probe is for contact channels only.
func (s *AuthService) CheckUser(ctx context.Context, input string) (*CheckResult, error) {
	data, err := userinfo.Extract(input)
	if err != nil {
		return nil, domainErrors.BadRequest(
			"Please provide a valid email or phone number.", domainErrors.CodeInvalidInput)
	}
	if data.Username != "" {
		return nil, domainErrors.BadRequest(
			"Please use email or phone instead.", domainErrors.CodeInvalidPhoneOrEmail)
	}

	existing, err := s.users.FindByIdentifier(ctx, data.Email, data.Phone, "")
	if err != nil && !errors.Is(err, domainErrors.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		if data.Email != "" && existing.Email == models.NormalizeEmail(data.Email) {
			return nil, &domainErrors.AppError{
				Err:        domainErrors.ErrEmailExists,
				Message:    "The email address is already registered. Please use a different email.",
				StatusCode: http.StatusBadRequest,
				Code:       domainErrors.CodeEmailExists,
			}
		}
		if data.Phone != "" && existing.Phone == data.Phone {
			return nil, &domainErrors.AppError{
				Err:        domainErrors.ErrPhoneExists,
				Message:    "The phone number is already registered. Please use a different phone number.",
				StatusCode: http.StatusBadRequest,
				Code:       domainErrors.CodePhoneExists,
			}
		}
	}

	return &CheckResult{Message: "User does not exist", UserData: data}, nil
}

// Register validates uniqueness of the candidate identifiers and issues an
// activation token wrapping the whole candidate field set. Nothing is
// persisted; the identity only materializes at activation.
func (s *AuthService) Register(ctx context.Context, candidate models.CandidateUser) (*models.RegistrationTicket, error) {
	candidate.Email = models.NormalizeEmail(candidate.Email)

	if err := s.checkDuplicates(ctx, candidate.Email, candidate.Phone, candidate.Username); err != nil {
		return nil, err
	}

	issued, err := s.verifications.Issue(ctx, candidate, PurposeActivation, candidate.Username)
	if err != nil {
		return nil, err
	}

	message := MsgCheckPhone
	if candidate.Email != "" {
		message = MsgCheckEmail
	}

	return &models.RegistrationTicket{
		Message:         message,
		ActivationToken: issued.Token,
		Code:            issued.Code,
	}, nil
}

// Activate consumes the activation token+code, re-checks uniqueness (two
// concurrent registrations can both pass the first check), materializes the
// identity and opens its first session.
func (s *AuthService) Activate(ctx context.Context, activationToken, activationCode, userAgent string) (models.TokenPair, *models.User, error) {
	subject, err := s.verifications.Verify(ctx, activationToken, activationCode, PurposeActivation, "")
	if err != nil {
		return models.TokenPair{}, nil, domainErrors.Unauthorized("Invalid activation link or code")
	}

	var candidate models.CandidateUser
	if err := json.Unmarshal(subject, &candidate); err != nil {
		return models.TokenPair{}, nil, domainErrors.Unauthorized("Invalid activation link or code")
	}

	if err := s.checkDuplicates(ctx, candidate.Email, candidate.Phone, candidate.Username); err != nil {
		return models.TokenPair{}, nil, err
	}

	digest, err := security.HashValue(candidate.Password)
	if err != nil {
		return models.TokenPair{}, nil, err
	}

	user := &models.User{
		ID:          uuid.NewString(),
		AccountType: candidate.AccountType,
		Firstname:   candidate.Firstname,
		Lastname:    candidate.Lastname,
		Companyname: candidate.Companyname,
		Username:    candidate.Username,
		Email:       candidate.Email,
		Phone:       candidate.Phone,
		Password:    digest,
		Role:        models.DefaultRole,
		Birthday:    parseDate(candidate.Birthday),
		Date:        parseDate(candidate.Date),
		Preferences: models.Preferences{EmailNotification: true},
	}
	// The sparse unique indexes need a value in both contact fields.
	if user.Email == "" {
		user.Email = models.PlaceholderEmail(user.Username)
	}
	if user.Phone == "" {
		user.Phone = models.PlaceholderPhone(user.Username)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.TokenPair{}, nil, err
	}

	pair, err := s.openSession(ctx, user, userAgent)
	if err != nil {
		return models.TokenPair{}, nil, err
	}

	if err := s.events.Publish(ctx, kafka.EventUserRegistered, user.ID, user.Public()); err != nil {
		s.logger.Warn("Failed to publish registration event", zap.Error(err), zap.String("user_id", user.ID))
	}

	return pair, user, nil
}

// Login resolves the identity by email, phone or username and verifies the
// password. Unknown user and wrong password produce the same error so the
// endpoint cannot be used to enumerate accounts. A 2FA-enabled account gets
// the mfaRequired signal and no tokens.
func (s *AuthService) Login(ctx context.Context, input, password, userAgent string) (*models.LoginResult, error) {
	data, err := userinfo.Extract(input)
	if err != nil {
		return nil, domainErrors.BadRequest(
			"Invalid input: must be a valid email, username, or phone number", domainErrors.CodeInvalidInput)
	}

	user, err := s.users.FindByIdentifier(ctx, data.Email, data.Phone, data.Username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !security.CompareValue(password, user.Password) {
		return nil, invalidCredentials()
	}

	if user.Preferences.Enable2FA {
		return &models.LoginResult{MFARequired: true}, nil
	}

	pair, err := s.openSession(ctx, user, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, kafka.EventUserLoggedIn, user.ID, nil); err != nil {
		s.logger.Warn("Failed to publish login event", zap.Error(err), zap.String("user_id", user.ID))
	}

	return &models.LoginResult{Tokens: pair}, nil
}

// Refresh validates a refresh token, resolves its session and applies the
// sliding-window rotation: a session within one day of expiry gets a fresh
// full term and a new refresh token, otherwise the presented refresh token
// stays valid. A new access token is minted either way.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return models.TokenPair{}, domainErrors.Unauthorized("Invalid refresh token")
	}

	user, err := s.users.FindBySessionID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrSessionNotFound) {
			return models.TokenPair{}, &domainErrors.AppError{
				Err:        domainErrors.ErrSessionNotFound,
				Message:    "Session not found or invalid",
				StatusCode: http.StatusBadRequest,
				Code:       domainErrors.CodeSessionNotFound,
			}
		}
		return models.TokenPair{}, err
	}

	var session *models.Session
	for i := range user.Sessions {
		if user.Sessions[i].ID == claims.SessionID {
			session = &user.Sessions[i]
			break
		}
	}
	if session == nil {
		return models.TokenPair{}, domainErrors.Unauthorized("Session does not exist")
	}

	now := time.Now()
	var newRefreshToken string
	if session.RequiresRefresh(now) {
		if err := s.users.ExtendSession(ctx, session.ID, now.Add(models.SessionTTL)); err != nil {
			return models.TokenPair{}, err
		}
		newRefreshToken, err = s.tokens.SignRefreshToken(session.ID)
		if err != nil {
			return models.TokenPair{}, err
		}
	}

	accessToken, err := s.tokens.SignAccessToken(user.ID, session.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout removes the session; revocation is implicit, outstanding access
// tokens die at their own short expiry.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.users.PullSession(ctx, sessionID); err != nil {
		return err
	}

	if err := s.cache.Del(ctx, "user:"+sessionID); err != nil {
		s.logger.Warn("Failed to delete session cache entry", zap.Error(err), zap.String("session_id", sessionID))
	}

	if err := s.events.Publish(ctx, kafka.EventSessionRevoked, sessionID, nil); err != nil {
		s.logger.Warn("Failed to publish logout event", zap.Error(err), zap.String("session_id", sessionID))
	}
	return nil
}

// openSession appends a fresh session to the user and signs the token pair
// bound to it. Creating the identity and pushing the session are separate
// writes; a crash in between leaves a user with no session, which the next
// login legitimately creates.
func (s *AuthService) openSession(ctx context.Context, user *models.User, userAgent string) (models.TokenPair, error) {
	session := models.NewSession(userAgent)
	if err := s.users.PushSession(ctx, user.ID, session); err != nil {
		return models.TokenPair{}, err
	}

	accessToken, err := s.tokens.SignAccessToken(user.ID, session.ID)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken, err := s.tokens.SignRefreshToken(session.ID)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := s.events.Publish(ctx, kafka.EventSessionCreated, user.ID, map[string]string{
		"sessionId": session.ID,
		"userAgent": userAgent,
	}); err != nil {
		s.logger.Warn("Failed to publish session event", zap.Error(err), zap.String("user_id", user.ID))
	}

	return models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// checkDuplicates fails with a field-specific conflict when any candidate
// identifier is already bound to an existing identity.
func (s *AuthService) checkDuplicates(ctx context.Context, email, phone, username string) error {
	existing, err := s.users.FindByIdentifier(ctx, email, phone, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	switch {
	case username != "" && existing.Username == username:
		return &domainErrors.AppError{
			Err:        domainErrors.ErrUsernameExists,
			Message:    "Username already exists",
			StatusCode: http.StatusBadRequest,
			Code:       domainErrors.CodeUsernameExists,
		}
	case email != "" && existing.Email == email:
		return &domainErrors.AppError{
			Err:        domainErrors.ErrEmailExists,
			Message:    "Email already exists",
			StatusCode: http.StatusBadRequest,
			Code:       domainErrors.CodeEmailExists,
		}
	case phone != "" && existing.Phone == phone:
		return &domainErrors.AppError{
			Err:        domainErrors.ErrPhoneExists,
			Message:    "Phone number already exists",
			StatusCode: http.StatusBadRequest,
			Code:       domainErrors.CodePhoneExists,
		}
	}
	return nil
}

func invalidCredentials() *domainErrors.AppError {
	return &domainErrors.AppError{
		Err:        domainErrors.ErrInvalidCredentials,
		Message:    "Invalid username or password",
		StatusCode: http.StatusBadRequest,
		Code:       domainErrors.CodeUserNotFound,
	}
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
