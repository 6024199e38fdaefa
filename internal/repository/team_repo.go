package repository

import (
	"context"

	"fleetadmin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository defines data access for team members, who are also the
// accounts that log in.
type TeamRepository interface {
	Create(ctx context.Context, member *model.TeamMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
	GetByEmail(ctx context.Context, email string) (*model.TeamMember, error)
	GetByUsername(ctx context.Context, username string) (*model.TeamMember, error)
	List(ctx context.Context, opts ListOptions) ([]model.TeamMember, int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Update(ctx context.Context, member *model.TeamMember) error
	TouchLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository returns a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, member *model.TeamMember) error {
	return GetDB(ctx, r.db).Create(member).Error
}

func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := GetDB(ctx, r.db).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := GetDB(ctx, r.db).First(&member, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) GetByUsername(ctx context.Context, username string) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := GetDB(ctx, r.db).First(&member, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) List(ctx context.Context, opts ListOptions) ([]model.TeamMember, int64, error) {
	var members []model.TeamMember
	var total int64

	scoped := func() *gorm.DB {
		return GetDB(ctx, r.db).Model(&model.TeamMember{}).Scopes(
			equalScope("role", opts.Category),
			searchScope(opts.Search, "name", "email", "username", "department"),
		)
	}
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := opts.paginate(scoped()).Order("name ASC").Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *teamRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.TeamMember{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *teamRepository) Update(ctx context.Context, member *model.TeamMember) error {
	return GetDB(ctx, r.db).Save(member).Error
}

func (r *teamRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.TeamMember{}).Where("id = ?", id).Update("last_login_at", gorm.Expr("NOW()")).Error
}

func (r *teamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TeamMember{}).Error
}
