package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"gamebus_backend/internal/models"
	"gamebus_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- AuthService Interface ---
type AuthService interface {
	Login(req models.LoginRequest) (*models.LoginResponse, error)
	Profile(username string) (*models.Operator, error)
}

// --- authService Implementation ---
type authService struct {
	operator models.Operator
	tokens   *utils.TokenManager
}

// NewAuthService builds the single-operator auth service. When only a plain
// password is given it is hashed once here.
func NewAuthService(username, password, passwordHash string, tokens *utils.TokenManager) (AuthService, error) {
	if passwordHash == "" {
		if password == "" {
			return nil, errors.New("operator password or password hash is required")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hashed)
	}
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	return &authService{
		operator: models.Operator{Username: username, PasswordHash: passwordHash},
		tokens:   tokens,
	}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.operator.Username)) == 1
	// bcrypt runs on every attempt, known username or not.
	pwErr := bcrypt.CompareHashAndPassword([]byte(s.operator.PasswordHash), []byte(req.Password))
	if !nameOK || pwErr != nil {
		utils.LogWarn("Failed login attempt", map[string]interface{}{"username": req.Username})
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(s.operator.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	utils.LogInfo("Operator logged in", map[string]interface{}{"username": s.operator.Username})
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		Username:    s.operator.Username,
	}, nil
}

func (s *authService) Profile(username string) (*models.Operator, error) {
	if username != s.operator.Username {
		return nil, ErrInvalidCredentials
	}
	op := models.Operator{Username: s.operator.Username}
	return &op, nil
}
