// Package auth handles contributor registration, login, and bearer
// token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/herolabs/hokhub/internal/store"
	"github.com/herolabs/hokhub/internal/store/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

// Identity is the resolved subject of a verified token.
type Identity struct {
	SubjectID   string
	DisplayName string
}

// Service issues and verifies contributor tokens.
type Service struct {
	contributors *repository.ContributorRepository
	secret       []byte
}

// NewService creates an auth service.
func NewService(contributors *repository.ContributorRepository, secret string) *Service {
	return &Service{contributors: contributors, secret: []byte(secret)}
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Result pairs an account with its issued token.
type Result struct {
	Contributor *store.Contributor `json:"contributor"`
	Token       string             `json:"token"`
}

// Register creates an account and issues a token.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.contributors.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	contributor, err := s.contributors.Create(ctx, input.Name, input.Email, string(hashed))
	if err != nil {
		return nil, err
	}

	token, err := s.issueToken(contributor)
	if err != nil {
		return nil, err
	}
	return &Result{Contributor: contributor, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	contributor, err := s.contributors.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if contributor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(contributor.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(contributor)
	if err != nil {
		return nil, err
	}
	return &Result{Contributor: contributor, Token: token}, nil
}

func (s *Service) issueToken(c *store.Contributor) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(c.ID),
		"name": c.Name,
		"exp":  time.Now().Add(TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a bearer token into an identity.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{SubjectID: sub, DisplayName: name}, nil
}
