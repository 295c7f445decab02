package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adit-wn/teamlane/internal/models"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/utils"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.Candidate, string, error)
	Login(ctx context.Context, email, password string) (*models.Candidate, string, error)
}

type authService struct {
	candidates pgrepo.CandidateRepository
	secret     string
	tokenTTL   time.Duration
}

func NewAuthService(candidates pgrepo.CandidateRepository, secret string, tokenTTL time.Duration) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{candidates: candidates, secret: secret, tokenTTL: tokenTTL}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*models.Candidate, string, error) {
	const op = "AuthService.Register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	if _, err := s.candidates.GetByEmail(ctx, email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "email already registered", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	now := time.Now().UTC()
	c := &models.Candidate{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         models.RoleCandidate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.candidates.Create(ctx, c); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create candidate", err)
	}

	token, err := utils.IssueToken(s.secret, c.ID, string(c.Role), s.tokenTTL)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return c, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.Candidate, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	c, err := s.candidates.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	if err := utils.CheckPassword(c.PasswordHash, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	token, err := utils.IssueToken(s.secret, c.ID, string(c.Role), s.tokenTTL)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return c, token, nil
}
