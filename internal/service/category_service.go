package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/policy"
)

type CategoryServicer interface {
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	GetByID(ctx context.Context, id uint64) (*model.Category, error)
	Create(ctx context.Context, actor *model.User, c *model.Category) error
	Update(ctx context.Context, actor *model.User, id uint64, changes map[string]interface{}) (*model.Category, error)
	Delete(ctx context.Context, actor *model.User, id uint64) error
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	var items []model.Category
	tx := s.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		tx = tx.Where("active = ?", true)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *CategoryService) Create(ctx context.Context, actor *model.User, c *model.Category) error {
	if err := policy.Authorize(actor, policy.OpManageCategories); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errs.NewValidation("name", "must not be empty")
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValidation("name", "already exists")
		}
		return err
	}
	return nil
}

func (s *CategoryService) Update(ctx context.Context, actor *model.User, id uint64, changes map[string]interface{}) (*model.Category, error) {
	if err := policy.Authorize(actor, policy.OpManageCategories); err != nil {
		return nil, err
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name, ok := changes["name"].(string); ok && strings.TrimSpace(name) == "" {
		return nil, errs.NewValidation("name", "must not be empty")
	}
	if err := s.db.WithContext(ctx).Model(c).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewValidation("name", "already exists")
		}
		return nil, err
	}
	return c, nil
}

// Delete deactivates rather than removes: existing feedback keeps its
// category reference, new feedback cannot use it.
func (s *CategoryService) Delete(ctx context.Context, actor *model.User, id uint64) error {
	if err := policy.Authorize(actor, policy.OpManageCategories); err != nil {
		return err
	}
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(c).Update("active", false).Error
}
