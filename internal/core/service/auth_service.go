package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/armando/shop-api/internal/core/domain"
	"github.com/armando/shop-api/internal/port"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues and verifies HS256 tokens and keeps logged-out tokens
// revoked until they would have expired anyway.
type AuthService struct {
	users     port.UserRepository
	blacklist port.TokenBlacklist
	secret    []byte
	tokenTTL  time.Duration
}

func NewAuthService(users port.UserRepository, blacklist port.TokenBlacklist, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, displayName, email, password string) (*domain.User, error) {
	if displayName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", domain.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  u.Email,
		"uid":  u.ID,
		"role": u.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Logout blacklists the token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return ErrInvalidCredentials
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	return s.blacklist.Revoke(ctx, tokenString, ttl)
}

// Authenticate resolves a bearer token to the identity that every service
// call receives by value. Revoked tokens are rejected before parsing.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (domain.Identity, error) {
	revoked, err := s.blacklist.IsRevoked(ctx, tokenString)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return domain.Identity{}, ErrInvalidCredentials
	}

	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return domain.Identity{}, err
	}

	email, ok := claims["sub"].(string)
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	uid, ok := claims["uid"].(float64)
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	role, ok := claims["role"].(string)
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}

	return domain.Identity{UserID: int64(uid), Email: email, Role: role}, nil
}

func (s *AuthService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
