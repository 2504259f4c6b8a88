package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"masterdata-service/internal/models"
)

// UserRepository persists user profiles and OTP state.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// FindByCred looks a user up by email or phone, email taking
	// precedence when both are given. A miss returns ErrNotFound.
	FindByCred(ctx context.Context, email, phone string) (*models.User, error)
	// FindAdminByCompany returns the company's usertype "A" row, the
	// source of the fields member profiles inherit.
	FindAdminByCompany(ctx context.Context, compID int64) (*models.User, error)
	ListByCompany(ctx context.Context, compID int64) ([]models.User, error)
	ListRoles(ctx context.Context) ([]models.UserRole, error)
	// SaveRole upserts a role by name.
	SaveRole(ctx context.Context, role *models.UserRole) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	// UpdatePicture records the stored picture and thumbnail paths.
	UpdatePicture(ctx context.Context, id int64, picPath, thumbPath string) error
	// GetHeader returns the condensed profile with the company resolved.
	GetHeader(ctx context.Context, id int64) (*models.UserHeader, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "userid = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByCred(ctx context.Context, email, phone string) (*models.User, error) {
	var user models.User
	query := r.db.WithContext(ctx)
	switch {
	case strings.TrimSpace(email) != "":
		query = query.Where("LOWER(TRIM(email)) = ?", strings.ToLower(strings.TrimSpace(email)))
	case strings.TrimSpace(phone) != "":
		query = query.Where("TRIM(phone) = ?", strings.TrimSpace(phone))
	default:
		return nil, ErrNotFound
	}
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindAdminByCompany(ctx context.Context, compID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("usertype = ? AND compid = ?", "A", compID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company admin: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListByCompany(ctx context.Context, compID int64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("compid = ?", compID).
		Order("firstname").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	var roles []models.UserRole
	if err := r.db.WithContext(ctx).Order("roleid").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *userRepository) SaveRole(ctx context.Context, role *models.UserRole) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rolename"}},
		DoUpdates: clause.AssignmentColumns([]string{"rolename"}),
	}).Create(role).Error
	if err != nil {
		return fmt.Errorf("failed to save role: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("userid = ?", id).
		Update("passwordhash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePicture(ctx context.Context, id int64, picPath, thumbPath string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("userid = ?", id).
		Updates(map[string]interface{}{"picpath": picPath, "thumbpath": thumbPath})
	if result.Error != nil {
		return fmt.Errorf("failed to update user picture: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetHeader(ctx context.Context, id int64) (*models.UserHeader, error) {
	var header models.UserHeader
	err := r.db.WithContext(ctx).Table("users u").
		Select("u.userid, u.firstname, u.lastname, u.usertype, u.compid, COALESCE(c.compname, '') AS compname, COALESCE(u.thumbpath, '') AS thumbpath").
		Joins("LEFT JOIN companies c ON c.compid = u.compid").
		Where("u.userid = ?", id).
		Scan(&header).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user header: %w", err)
	}
	if header.UserID == 0 {
		return nil, ErrNotFound
	}
	return &header, nil
}
