package service

import (
	"context"
	"testing"

	"fleetadmin/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTeamFixture() (TeamService, *fakeTeamRepo) {
	repo := newFakeTeamRepo()
	return NewTeamService(repo, &fakeAudit{}, &fakeTx{}, testSecret, 0), repo
}

func memberRequest(username, role string, perms ...string) CreateMemberRequest {
	return CreateMemberRequest{
		TeamMember: model.TeamMember{
			Name:        "Member " + username,
			Email:       username + "@Example.com",
			Username:    username,
			Role:        role,
			Permissions: pq.StringArray(perms),
		},
		Password: "secret123",
	}
}

func TestCreateMemberHashesPassword(t *testing.T) {
	svc, repo := newTeamFixture()
	m, err := svc.Create(context.Background(), Actor{}, memberRequest("priya", model.RoleEmployee, "bookings", "chat", "bookings"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored := repo.rows[m.ID]
	if stored.Password == "secret123" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}
	if stored.Email != "priya@example.com" {
		t.Fatalf("email = %q, want lowercased", stored.Email)
	}
	if len(stored.Permissions) != 2 {
		t.Fatalf("permissions = %v, want deduplicated", stored.Permissions)
	}
	if stored.Status != model.MemberActive {
		t.Fatalf("status = %q, want active", stored.Status)
	}
}

func TestCreateMemberRules(t *testing.T) {
	svc, _ := newTeamFixture()
	ctx := context.Background()

	admin, err := svc.Create(ctx, Actor{}, memberRequest("arun", model.RoleAdmin, "bookings"))
	if err != nil {
		t.Fatalf("Create admin: %v", err)
	}
	if len(admin.Permissions) != 0 {
		t.Fatalf("admin permissions = %v, want none", admin.Permissions)
	}

	if _, err := svc.Create(ctx, Actor{}, memberRequest("arun", model.RoleEmployee)); !IsConflict(err) {
		t.Fatalf("duplicate username: expected conflict, got %v", err)
	}
	if _, err := svc.Create(ctx, Actor{}, memberRequest("neha", model.RoleEmployee, "payroll")); !IsValidation(err) {
		t.Fatalf("unknown permission: expected validation error, got %v", err)
	}
	short := memberRequest("neha", model.RoleEmployee)
	short.Password = "123"
	if _, err := svc.Create(ctx, Actor{}, short); !IsValidation(err) {
		t.Fatalf("short password: expected validation error, got %v", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	svc, repo := newTeamFixture()
	ctx := context.Background()
	m, err := svc.Create(ctx, Actor{}, memberRequest("priya", model.RoleEmployee, "bookings"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Username: "priya", Password: "wrong"}); !IsUnauthorized(err) {
		t.Fatalf("wrong password: expected unauthorized, got %v", err)
	}

	res, err := svc.Login(ctx, LoginRequest{Username: "priya@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login by email: %v", err)
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != m.ID.String() || claims["role"] != model.RoleEmployee || claims["username"] != "priya" {
		t.Fatalf("unexpected claims %v", claims)
	}
	perms, _ := claims["perms"].([]interface{})
	if len(perms) != 1 || perms[0] != "bookings" {
		t.Fatalf("perms claim = %v", claims["perms"])
	}
	if repo.rows[m.ID].LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	stored := repo.rows[m.ID]
	stored.Status = model.MemberInactive
	repo.rows[m.ID] = stored
	if _, err := svc.Login(ctx, LoginRequest{Username: "priya", Password: "secret123"}); !IsUnauthorized(err) {
		t.Fatalf("inactive account: expected unauthorized, got %v", err)
	}
}

func TestLastOwnerIsProtected(t *testing.T) {
	svc, repo := newTeamFixture()
	ctx := context.Background()
	if err := svc.EnsureOwner(ctx, "root", "rootpass"); err != nil {
		t.Fatalf("EnsureOwner: %v", err)
	}
	if err := svc.EnsureOwner(ctx, "other", "rootpass"); err != nil {
		t.Fatalf("second EnsureOwner: %v", err)
	}
	if n, _ := repo.CountByRole(ctx, model.RoleOwner); n != 1 {
		t.Fatalf("owners = %d, want 1", n)
	}
	owner, err := repo.GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("owner not created: %v", err)
	}
	if owner.Email != "root@localhost.local" {
		t.Fatalf("owner email = %q", owner.Email)
	}

	demote := *owner
	demote.Role = model.RoleAdmin
	if _, err := svc.Update(ctx, Actor{}, owner.ID.String(), demote); !IsConflict(err) {
		t.Fatalf("demoting last owner: expected conflict, got %v", err)
	}
	if err := svc.Delete(ctx, Actor{}, owner.ID.String()); !IsConflict(err) {
		t.Fatalf("deleting last owner: expected conflict, got %v", err)
	}
	if err := svc.Delete(ctx, Actor{ID: owner.ID.String()}, owner.ID.String()); !IsConflict(err) {
		t.Fatalf("deleting self: expected conflict, got %v", err)
	}

	second, err := svc.Create(ctx, Actor{}, memberRequest("sara", model.RoleOwner))
	if err != nil {
		t.Fatalf("Create second owner: %v", err)
	}
	if err := svc.Delete(ctx, Actor{ID: second.ID.String()}, owner.ID.String()); err != nil {
		t.Fatalf("deleting one of two owners: %v", err)
	}
}

func TestUpdateMemberKeepsPassword(t *testing.T) {
	svc, repo := newTeamFixture()
	ctx := context.Background()
	m, err := svc.Create(ctx, Actor{}, memberRequest("priya", model.RoleEmployee))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hash := repo.rows[m.ID].Password

	edit := *m
	edit.Password = ""
	edit.Designation = "Dispatcher"
	if _, err := svc.Update(ctx, Actor{}, m.ID.String(), edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if repo.rows[m.ID].Password != hash {
		t.Fatalf("password hash changed on update")
	}
	if repo.rows[m.ID].Designation != "Dispatcher" {
		t.Fatalf("designation not saved")
	}
}
