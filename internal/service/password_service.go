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

// PasswordService drives the forgot -> verify -> reset state machine.
type PasswordService struct {
	users         interfaces.UserRepository
	verifications *VerificationService
	events        kafka.Publisher
	logger        *zap.Logger
}

// NewPasswordService wires the password-reset flows.
func NewPasswordService(
	users interfaces.UserRepository,
	verifications *VerificationService,
	events kafka.Publisher,
	logger *zap.Logger,
) *PasswordService {
	return &PasswordService{
		users:         users,
		verifications: verifications,
		events:        events,
		logger:        logger,
	}
}

// ForgotResult is the forgot-password response.
type ForgotResult struct {
	Message         string `json:"message"`
	MaskedContact   string `json:"maskedContact"`
	ActivationToken string `json:"activationToken"`
	Code            string `json:"code"`
}

// ResetTicket is the single-use upgrade handed out once the reset code was
// consumed; it authorizes exactly one password change within the hour.
type ResetTicket struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Forgot resolves the identity, applies the trailing-window rate limit and
// appends a PASSWORD_RESET verification holding the code digest. The
// signed token wraps the user id only.
func (s *PasswordService) Forgot(ctx context.Context, input string) (*ForgotResult, error) {
	data, err := userinfo.Extract(input)
	if err != nil {
		return nil, domainErrors.BadRequest(
			"Invalid input: must be a valid email, username, or phone number", domainErrors.CodeInvalidInput)
	}

	user, err := s.users.FindByIdentifier(ctx, data.Email, data.Phone, data.Username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, &domainErrors.AppError{
				Err:        domainErrors.ErrUserNotFound,
				Message:    "User not found",
				StatusCode: http.StatusBadRequest,
				Code:       domainErrors.CodeUserNotFound,
			}
		}
		return nil, err
	}

	now := time.Now()
	user.PurgeExpiredVerifications(now)
	recent := user.CountRecentVerifications(models.VerificationPasswordReset, now.Add(-models.ResetAttemptWindow))
	if recent >= models.MaxResetAttempts {
		return nil, &domainErrors.AppError{
			Err:        domainErrors.ErrTooManyAttempts,
			Message:    "You've requested password resets too frequently. Please wait a few minutes and try again.",
			StatusCode: http.StatusTooManyRequests,
			Code:       domainErrors.CodeTooManyAttempts,
		}
	}

	issued, err := s.verifications.Issue(ctx, user.ID, PurposeForgotPassword, "")
	if err != nil {
		return nil, err
	}

	user.AppendVerification(models.Verification{
		Token:     issued.Token,
		Code:      issued.CodeDigest,
		Type:      models.VerificationPasswordReset,
		ExpiredAt: now.Add(time.Hour),
		CreatedAt: now,
	}, models.MaxStoredVerifications)

	if err := s.users.ReplaceVerifications(ctx, user.ID, user.Verifications); err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, kafka.EventPasswordResetAsk, user.ID, nil); err != nil {
		s.logger.Warn("Failed to publish reset-requested event", zap.Error(err), zap.String("user_id", user.ID))
	}

	message := MsgCheckEmail
	if data.Phone != "" {
		message = MsgCheckPhone
	}

	return &ForgotResult{
		Message:         message,
		MaskedContact:   maskedContact(data, user),
		ActivationToken: issued.Token,
		Code:            issued.Code,
	}, nil
}

// ActivateReset consumes a reset token+code pair: the owning identity is
// located through the PASSWORD_RESET record holding the token, the code is
// compared against that record's digest, and on success every pending
// PASSWORD_RESET is replaced with one fresh PASSWORD_VERIFIED record.
func (s *PasswordService) ActivateReset(ctx context.Context, activationToken, activationCode string) (*ResetTicket, error) {
	user, err := s.users.FindByResetToken(ctx, activationToken)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return nil, domainErrors.Unauthorized("Invalid activation link or code")
		}
		return nil, err
	}

	record := user.FindVerification(activationToken)
	if record == nil {
		return nil, domainErrors.Unauthorized("Invalid activation link or code")
	}

	subject, err := s.verifications.Verify(ctx, activationToken, activationCode, PurposeForgotPassword, record.Code)
	if err != nil {
		return nil, domainErrors.Unauthorized("Invalid activation link or code")
	}

	var userID string
	if err := json.Unmarshal(subject, &userID); err != nil || userID == "" {
		return nil, domainErrors.Unauthorized("Invalid activation link or code")
	}

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := models.Verification{
		Token:     uuid.NewString(),
		Code:      uuid.NewString(),
		Type:      models.VerificationPasswordVerified,
		ExpiredAt: now.Add(time.Hour),
		CreatedAt: now,
	}

	owner.StripVerifications(models.VerificationPasswordReset)
	owner.AppendVerification(ticket, models.MaxStoredVerifications)

	if err := s.users.ReplaceVerifications(ctx, owner.ID, owner.Verifications); err != nil {
		return nil, err
	}

	return &ResetTicket{Token: ticket.Token, UserID: owner.ID}, nil
}

// Reset changes the password given a live PASSWORD_VERIFIED ticket, strips
// every verification of both reset types and clears all sessions: a
// password change logs the account out everywhere.
func (s *PasswordService) Reset(ctx context.Context, userID, token, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			return &domainErrors.AppError{
				Err:        domainErrors.ErrUserNotFound,
				Message:    "User not found",
				StatusCode: http.StatusBadRequest,
				Code:       domainErrors.CodeUserNotFound,
			}
		}
		return err
	}

	if user.FindLiveVerification(token, models.VerificationPasswordVerified, time.Now()) == nil {
		return &domainErrors.AppError{
			Err:        domainErrors.ErrInvalidOrExpiredCode,
			Message:    "Invalid or expired verification code",
			StatusCode: http.StatusBadRequest,
			Code:       domainErrors.CodeVerificationError,
		}
	}

	digest, err := security.HashValue(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return err
	}

	user.StripVerifications(models.VerificationPasswordReset, models.VerificationPasswordVerified)
	if err := s.users.ReplaceVerifications(ctx, user.ID, user.Verifications); err != nil {
		return err
	}

	if err := s.users.ClearSessions(ctx, user.ID); err != nil {
		return err
	}

	if err := s.events.Publish(ctx, kafka.EventPasswordReset, user.ID, nil); err != nil {
		s.logger.Warn("Failed to publish password-reset event", zap.Error(err), zap.String("user_id", user.ID))
	}

	return nil
}

// maskedContact picks what the client may display: an email the caller
// typed themselves is echoed back, a username-initiated request masks the
// stored email, a phone-initiated one masks the normalized number.
func maskedContact(data userinfo.UserInfo, user *models.User) string {
	switch {
	case data.Email != "":
		return data.Email
	case data.Username != "":
		if user.HasRealEmail() {
			return userinfo.MaskEmail(user.Email)
		}
		return userinfo.MaskPhone(user.Phone)
	default:
		return userinfo.MaskPhone(data.Phone)
	}
}
