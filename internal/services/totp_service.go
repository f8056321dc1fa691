package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"labstock/internal/apperror"
	"labstock/internal/auth"
	"labstock/internal/models"
	"labstock/internal/repositories"
)

const totpIssuer = "LabStock"

// TOTPSetupResponse carries the provisioning secret and QR code for an
// authenticator app
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

type TOTPService struct {
	UserRepo *repositories.UserRepository
	JWT      *auth.JWTManager
	Audit    *AuditService
}

func NewTOTPService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager, audit *AuditService) *TOTPService {
	return &TOTPService{UserRepo: userRepo, JWT: jwtManager, Audit: audit}
}

// GenerateSetup creates a new TOTP secret for a user. The secret is stored
// but 2FA stays off until the user confirms a code with VerifyAndEnable.
func (s *TOTPService) GenerateSetup(ctx context.Context, userID int) (*TOTPSetupResponse, error) {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	secret := key.Secret()
	if err := s.UserRepo.SetTOTP(ctx, user.ID, &secret, false); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret:      secret,
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable confirms a code against the stored secret and turns 2FA on
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return apperror.Validation("2FA setup not initiated")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperror.Validation("invalid verification code")
	}

	if err := s.UserRepo.SetTOTP(ctx, user.ID, user.TOTPSecret, true); err != nil {
		return err
	}

	s.Audit.Record(ctx, user.ID, user.Name, "TOTP_ENABLED", "Two-factor authentication enabled")
	return nil
}

// VerifyLogin finishes a 2FA login: the temp token from login step 1 plus a
// valid code yields a full session token.
func (s *TOTPService) VerifyLogin(ctx context.Context, tempToken, code string) (*models.AuthResponse, error) {
	claims, err := s.JWT.ValidateTempToken(tempToken)
	if err != nil {
		return nil, apperror.Validation("invalid or expired temp token")
	}

	user, err := s.UserRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.ErrForbidden
	}
	if !user.TOTPEnabled || user.TOTPSecret == nil {
		return nil, apperror.Validation("2FA is not enabled")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return nil, apperror.Validation("invalid verification code")
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, user.ID, user.Name, "USER_LOGIN", "Logged in with 2FA")
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Disable turns 2FA off after re-checking the password and a current code
func (s *TOTPService) Disable(ctx context.Context, userID int, password, code string) error {
	user, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return apperror.Validation("invalid password")
	}
	if user.TOTPSecret == nil || !totp.Validate(code, *user.TOTPSecret) {
		return apperror.Validation("invalid verification code")
	}

	if err := s.UserRepo.SetTOTP(ctx, user.ID, nil, false); err != nil {
		return err
	}

	s.Audit.Record(ctx, user.ID, user.Name, "TOTP_DISABLED", "Two-factor authentication disabled")
	return nil
}
