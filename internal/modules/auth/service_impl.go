package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/jvalladares/tienda-backend/internal/config"
	"github.com/jvalladares/tienda-backend/internal/modules/user"
)

const tokenTTL = time.Hour

type service struct {
	userRepo     user.Repository
	jwtSecret    []byte
	oauthConfig  *oauth2.Config
	idTokenCheck *oidc.IDTokenVerifier
}

// NewService creates an auth service wired to the configured OIDC provider.
// Provider discovery runs once at startup.
func NewService(ctx context.Context, cfg *config.Config, userRepo user.Repository) (Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider init: %w", err)
	}

	return &service{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		idTokenCheck: provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		RoleID:         user.RoleCustomer,
		Email:          req.Email,
		PasswordHash:   string(hashedPassword),
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Active:         true,
	}
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}
	if !u.Active {
		return "", errors.New("account is not active")
	}
	return s.signToken(u.ID)
}

func (s *service) AuthCodeURL(state, pkceVerifier string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(pkceVerifier))
}

func (s *service) HandleCallback(ctx context.Context, code, pkceVerifier string) (string, error) {
	token, err := s.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(pkceVerifier))
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("no id_token in token response")
	}
	idToken, err := s.idTokenCheck.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("id token verification failed: %w", err)
	}

	var claims struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("claims parse error: %w", err)
	}
	if claims.Email == "" {
		return "", errors.New("identity provider returned no email")
	}

	u, err := s.userRepo.GetUserByEmail(ctx, claims.Email)
	if errors.Is(err, sql.ErrNoRows) {
		u = &user.User{
			RoleID:    user.RoleCustomer,
			Email:     claims.Email,
			FirstName: claims.GivenName,
			LastName:  claims.FamilyName,
			Active:    true,
		}
		if err := s.userRepo.CreateUser(ctx, u); err != nil {
			return "", fmt.Errorf("create federated user: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("lookup federated user: %w", err)
	}

	return s.signToken(u.ID)
}

func (s *service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	return strconv.ParseInt(claims.Subject, 10, 64)
}

func (s *service) signToken(userID int64) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
