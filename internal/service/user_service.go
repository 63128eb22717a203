package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/policy"
)

// UserServicer — handler-facing interface (dependency inversion, mirrors the
// service interfaces used for the transport layer).
type UserServicer interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context, actor *model.User, limit, offset int) ([]model.User, int64, error)
	ChangeRole(ctx context.Context, actor *model.User, id uint64, role model.Role) (*model.User, error)
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterInput is the canonical registration shape: role-based, no
// password-confirmation duplicate (clients confirm locally).
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       model.Role
	Department string
}

// ValidateRegister returns the per-field problems of a registration input.
func ValidateRegister(in RegisterInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		fields["email"] = "must be a valid email address"
	}
	if len(in.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if in.Role == "" {
		fields["role"] = "is required"
	} else if !model.ValidRole(in.Role) {
		fields["role"] = "must be one of student, faculty, staff, admin, superadmin"
	} else if in.Role.Privileged() {
		// Admin accounts are provisioned by a superadmin role change, not
		// by open registration.
		fields["role"] = "cannot self-register a privileged role"
	}
	if len(fields) > 0 {
		return &errs.ValidationError{Fields: fields}
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := ValidateRegister(input); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Department:   input.Department,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errs.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, actor *model.User, limit, offset int) ([]model.User, int64, error) {
	if err := policy.Authorize(actor, policy.OpListUsers); err != nil {
		return nil, 0, err
	}
	var users []model.User
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.User{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ChangeRole is the only way a role changes after registration; superadmin
// only.
func (s *UserService) ChangeRole(ctx context.Context, actor *model.User, id uint64, role model.Role) (*model.User, error) {
	if err := policy.Authorize(actor, policy.OpManageUsers); err != nil {
		return nil, err
	}
	if !model.ValidRole(role) {
		return nil, errs.ErrInvalidEnumValue
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}
