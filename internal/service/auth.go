package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kinneerd/Cordkeeper/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles first-run account setup, login, and JWT token
// operations for the single owner account.
type AuthService struct {
	accounts   domain.AccountRepository
	jwtSecret  []byte
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts domain.AccountRepository, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{
		accounts:   accounts,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
	}
}

// Setup creates the owner account. It runs at most once per instance;
// a second call returns ErrAccountExists.
func (s *AuthService) Setup(ctx context.Context, displayName, password, confirmPassword string) (*domain.Account, error) {
	if displayName == "" || password == "" {
		return nil, fmt.Errorf("%w: display name and password are required", domain.ErrInvalidInput)
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Login verifies the owner password and returns a signed JWT token
// string. Before setup has run it returns ErrSetupRequired.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	account, err := s.accounts.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrSetupRequired
		}
		return "", fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	token, err := s.generateJWT(account)
	if err != nil {
		return "", fmt.Errorf("generate jwt: %w", err)
	}
	return token, nil
}

// ValidateToken parses and validates a JWT token string and returns the
// account ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return accountID, nil
}

// Account returns the owner account, or ErrNotFound before setup.
func (s *AuthService) Account(ctx context.Context) (*domain.Account, error) {
	return s.accounts.Get(ctx)
}

func (s *AuthService) generateJWT(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          strconv.FormatInt(account.ID, 10),
		"display_name": account.DisplayName,
		"iat":          now.Unix(),
		"exp":          now.Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
