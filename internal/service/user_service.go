package service

import (
	"context"
	"errors"
	"strings"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/identity"
	"Doubts_Clearance/internal/model"
	"Doubts_Clearance/internal/pkg"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthPolicy carries the institutional access rules from config.
type AuthPolicy struct {
	DomainAllowed func(email string) bool
	IsAdminEmail  func(email string) bool
}

// UserService handles local and Google sign-in plus session lifecycle.
type UserService struct {
	users      UserStore
	sessions   SessionStore
	reputation ReputationStore
	resolver   identity.Resolver
	tokens     *pkg.TokenIssuer
	policy     AuthPolicy
}

func NewUserService(users UserStore, sessions SessionStore, reputation ReputationStore, resolver identity.Resolver, tokens *pkg.TokenIssuer, policy AuthPolicy) *UserService {
	return &UserService{
		users:      users,
		sessions:   sessions,
		reputation: reputation,
		resolver:   resolver,
		tokens:     tokens,
		policy:     policy,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, *pkg.Pair, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, nil, apperr.Validation("name, email and password are required")
	}
	if !s.policy.DomainAllowed(email) {
		return nil, nil, apperr.Forbidden("only institutional accounts are allowed")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, nil, apperr.Conflict("user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	role := model.RoleUser
	if s.policy.IsAdminEmail(email) {
		role = model.RoleAdmin
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Provider: model.ProviderLocal,
		Role:     role,
		Status:   model.UserActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, *pkg.Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, apperr.Forbidden("invalid credentials")
	}
	if user.IsSuspended() {
		return nil, nil, apperr.Forbidden("account suspended")
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// GoogleSignIn resolves the ID token, enforces the institutional domain and
// creates the account on first login.
func (s *UserService) GoogleSignIn(ctx context.Context, credential string) (*model.User, *pkg.Pair, error) {
	id, err := s.resolver.Resolve(ctx, credential)
	if err != nil {
		return nil, nil, err
	}
	if !s.policy.DomainAllowed(id.Email) {
		return nil, nil, apperr.Forbidden("only institutional accounts are allowed")
	}

	role := model.RoleUser
	if s.policy.IsAdminEmail(id.Email) {
		role = model.RoleAdmin
	}
	user, err := s.users.UpsertGoogle(ctx, id.Name, id.Email, id.Subject, role)
	if err != nil {
		return nil, nil, err
	}
	if user.IsSuspended() {
		return nil, nil, apperr.Forbidden("account suspended")
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.DeleteUserToken(ctx, userID)
}

// Refresh rotates the token pair and re-mirrors the new access token.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, apperr.Forbidden("invalid refresh token")
	}
	claims, err := s.tokens.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.AddUserToken(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Me(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	return user, err
}

func (s *UserService) ReputationHistory(ctx context.Context, userID uint64) ([]model.ReputationEvent, error) {
	return s.reputation.History(ctx, userID)
}

// openSession issues the pair and mirrors the access token in redis so a
// fresh login invalidates older sessions.
func (s *UserService) openSession(ctx context.Context, user *model.User) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.AddUserToken(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}
