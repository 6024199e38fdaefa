package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetadmin/internal/model"
	"fleetadmin/internal/repository"
	"fleetadmin/internal/validate"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateMemberRequest is a team member plus the password, which is only
// accepted on create.
type CreateMemberRequest struct {
	model.TeamMember
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      model.TeamMember `json:"user"`
}

type TeamService interface {
	List(ctx context.Context, q ListQuery) ([]model.TeamMember, int64, error)
	Get(ctx context.Context, id string) (*model.TeamMember, error)
	Create(ctx context.Context, actor Actor, req CreateMemberRequest) (*model.TeamMember, error)
	Update(ctx context.Context, actor Actor, id string, in model.TeamMember) (*model.TeamMember, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Permissions() []model.Permission
	EnsureOwner(ctx context.Context, username, password string) error
}

type teamService struct {
	teamRepo  repository.TeamRepository
	txManager repository.TransactionManager
	audit     auditor
	secret    []byte
	tokenTTL  time.Duration
}

// NewTeamService returns a TeamService that signs tokens with secret.
func NewTeamService(teamRepo repository.TeamRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, secret string, tokenTTL time.Duration) TeamService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &teamService{
		teamRepo:  teamRepo,
		txManager: txManager,
		audit:     auditor{repo: auditRepo, entityType: "team"},
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

// prepareMember validates identity fields and drops permissions for roles
// that already have full access.
func prepareMember(m *model.TeamMember) error {
	if err := requireText("name", m.Name); err != nil {
		return err
	}
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if !validate.Email(m.Email) {
		return ValidationError{Field: "email", Msg: validate.Message("email")}
	}
	if m.Phone != "" && !validate.Phone(m.Phone) {
		return ValidationError{Field: "phone", Msg: validate.Message("phone")}
	}
	if m.AlternatePhone != "" && !validate.Phone(m.AlternatePhone) {
		return ValidationError{Field: "alternatePhone", Msg: validate.Message("phone")}
	}
	m.Username = strings.TrimSpace(m.Username)
	if err := requireText("username", m.Username); err != nil {
		return err
	}
	if m.Role == "" {
		m.Role = model.RoleEmployee
	}
	if err := oneOf("role", m.Role, model.RoleOwner, model.RoleAdmin, model.RoleEmployee); err != nil {
		return err
	}
	if m.Status == "" {
		m.Status = model.MemberActive
	}
	if err := oneOf("status", m.Status, model.MemberActive, model.MemberInactive); err != nil {
		return err
	}

	if m.Role != model.RoleEmployee {
		m.Permissions = pq.StringArray{}
		return nil
	}
	seen := make(map[string]bool, len(m.Permissions))
	perms := make(pq.StringArray, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		if !model.IsPermission(p) {
			return ValidationError{Field: "permissions", Msg: "unknown permission " + p}
		}
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	m.Permissions = perms
	return nil
}

func (s *teamService) ensureUnique(ctx context.Context, m *model.TeamMember) error {
	if other, err := s.teamRepo.GetByUsername(ctx, m.Username); err == nil && other.ID != m.ID {
		return ConflictError{Resource: "team member", Msg: "username already exists"}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if other, err := s.teamRepo.GetByEmail(ctx, m.Email); err == nil && other.ID != m.ID {
		return ConflictError{Resource: "team member", Msg: "email already exists"}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *teamService) List(ctx context.Context, q ListQuery) ([]model.TeamMember, int64, error) {
	members, total, err := s.teamRepo.List(ctx, q.options())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch team members: %w", err)
	}
	return members, total, nil
}

func (s *teamService) Get(ctx context.Context, id string) (*model.TeamMember, error) {
	uid, err := parseID("team member", id)
	if err != nil {
		return nil, err
	}
	member, err := s.teamRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("team member", err)
	}
	return member, nil
}

func (s *teamService) Create(ctx context.Context, actor Actor, req CreateMemberRequest) (*model.TeamMember, error) {
	member := req.TeamMember
	member.ID = uuid.Nil
	member.LastLoginAt = nil
	if err := prepareMember(&member); err != nil {
		return nil, err
	}
	if len(req.Password) < 6 {
		return nil, ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	if err := s.ensureUnique(ctx, &member); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	member.Password = string(hashed)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.teamRepo.Create(txCtx, &member); err != nil {
			return fmt.Errorf("failed to create team member: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionCreate, member.ID.String(), member.Name, map[string]string{"role": member.Role})
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update replaces profile fields; the stored password is never touched.
func (s *teamService) Update(ctx context.Context, actor Actor, id string, in model.TeamMember) (*model.TeamMember, error) {
	uid, err := parseID("team member", id)
	if err != nil {
		return nil, err
	}
	existing, err := s.teamRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, lookupErr("team member", err)
	}

	member := in
	member.ID = existing.ID
	member.Password = existing.Password
	member.LastLoginAt = existing.LastLoginAt
	member.CreatedAt = existing.CreatedAt
	if err := prepareMember(&member); err != nil {
		return nil, err
	}
	if existing.Role == model.RoleOwner && member.Role != model.RoleOwner {
		if err := s.ensureAnotherOwner(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUnique(ctx, &member); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.teamRepo.Update(txCtx, &member); err != nil {
			return fmt.Errorf("failed to update team member: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionUpdate, member.ID.String(), member.Name, map[string]string{"role": member.Role})
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *teamService) ensureAnotherOwner(ctx context.Context) error {
	owners, err := s.teamRepo.CountByRole(ctx, model.RoleOwner)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	if owners <= 1 {
		return ConflictError{Resource: "team member", Msg: "at least one owner must remain"}
	}
	return nil
}

func (s *teamService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := parseID("team member", id)
	if err != nil {
		return err
	}
	if actor.ID == uid.String() {
		return ConflictError{Resource: "team member", Msg: "you cannot delete your own account"}
	}
	member, err := s.teamRepo.GetByID(ctx, uid)
	if err != nil {
		return lookupErr("team member", err)
	}
	if member.Role == model.RoleOwner {
		if err := s.ensureAnotherOwner(ctx); err != nil {
			return err
		}
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.teamRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete team member: %w", err)
		}
		return s.audit.record(txCtx, actor, model.ActionDelete, member.ID.String(), member.Name, nil)
	})
}

// Login accepts a username or an email address.
func (s *teamService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	invalid := UnauthorizedError{Msg: "invalid username or password"}

	lookup := s.teamRepo.GetByUsername
	if strings.Contains(req.Username, "@") {
		lookup = s.teamRepo.GetByEmail
	}
	member, err := lookup(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}
	if member.Status != model.MemberActive {
		return nil, UnauthorizedError{Msg: "account is inactive"}
	}

	expiresAt := nowFunc().Add(s.tokenTTL)
	perms := []string(member.Permissions)
	if perms == nil {
		perms = []string{}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      member.ID.String(),
		"role":     member.Role,
		"username": member.Username,
		"name":     member.Name,
		"perms":    perms,
		"exp":      expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.teamRepo.TouchLogin(ctx, member.ID); err != nil {
		logrus.WithError(err).WithField("member_id", member.ID).Warn("Failed to record last login")
	}
	return &TokenResponse{Token: signed, ExpiresAt: expiresAt, User: *member}, nil
}

func (s *teamService) Permissions() []model.Permission {
	return model.Permissions
}

// EnsureOwner creates the first owner account when no owner exists yet.
func (s *teamService) EnsureOwner(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	owners, err := s.teamRepo.CountByRole(ctx, model.RoleOwner)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	if owners > 0 {
		return nil
	}
	email := username
	if !strings.Contains(email, "@") {
		email = username + "@localhost.local"
	}
	_, err = s.Create(ctx, Actor{}, CreateMemberRequest{
		TeamMember: model.TeamMember{Name: "Owner", Email: email, Username: username, Role: model.RoleOwner},
		Password:   password,
	})
	if err != nil {
		return err
	}
	logrus.WithField("username", username).Info("Created initial owner account")
	return nil
}
