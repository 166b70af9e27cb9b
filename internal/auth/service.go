package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"signalviz/internal/jwttoken"
	dErrors "signalviz/pkg/domain-errors"
)

// LoginResult is the successful login response body.
type LoginResult struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// Service validates researcher credentials against the policy and issues
// session tokens.
type Service struct {
	policy   *AuthorizationPolicy
	tokens   *jwttoken.JWTService
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates a login service.
func NewService(policy *AuthorizationPolicy, tokens *jwttoken.JWTService, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{policy: policy, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// Login checks the credential ID against the allow-list and returns a signed
// token. Matching is case-insensitive; the lowercased ID is what the token
// carries.
func (s *Service) Login(ctx context.Context, id string) (LoginResult, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return LoginResult{}, dErrors.New(dErrors.CodeBadRequest, "id is required")
	}

	if !s.policy.Authorized(trimmed) {
		s.logger.WarnContext(ctx, "login rejected", "id", trimmed)
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "unauthorized id")
	}

	user := strings.ToLower(trimmed)
	token, err := s.tokens.GenerateAccessToken(user, s.tokenTTL)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "failed to issue token", err)
	}

	s.logger.InfoContext(ctx, "login accepted", "user", user)
	return LoginResult{User: user, Token: token}, nil
}
