package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/kafka"
	"github.com/college-feedback/feedback-service/internal/model"
	"github.com/college-feedback/feedback-service/internal/policy"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxCommentLen     = 1000
)

// FeedbackServicer — handler-facing interface.
type FeedbackServicer interface {
	Create(ctx context.Context, submitter *model.User, input CreateFeedbackInput) (*model.Feedback, error)
	GetByID(ctx context.Context, actor *model.User, id uint64) (*model.Feedback, error)
	List(ctx context.Context, actor *model.User, filter FeedbackFilter) ([]model.Feedback, int64, error)
	Transition(ctx context.Context, actor *model.User, id uint64, target model.Status) (*model.Feedback, error)
	Assign(ctx context.Context, actor *model.User, id, assigneeID uint64) (*model.Feedback, error)
	AddComment(ctx context.Context, actor *model.User, feedbackID uint64, body string, internal bool) (*model.Comment, error)
	ListComments(ctx context.Context, actor *model.User, feedbackID uint64) ([]model.Comment, error)
	History(ctx context.Context, actor *model.User, feedbackID uint64) ([]model.HistoryEntry, error)
	Rate(ctx context.Context, actor *model.User, id uint64, rating int) (*model.Feedback, error)
	Delete(ctx context.Context, actor *model.User, id uint64) error
}

type FeedbackService struct {
	db       *gorm.DB
	producer kafka.FeedbackEventProducer
}

func NewFeedbackService(db *gorm.DB, producer kafka.FeedbackEventProducer) *FeedbackService {
	return &FeedbackService{db: db, producer: producer}
}

type CreateFeedbackInput struct {
	Title       string
	Description string
	CategoryID  uint64
	Priority    model.Priority
	IsAnonymous bool
	Attachment  string
}

// ValidateCreateFeedback checks everything that does not need the database.
// Category existence is checked against storage in Create.
func ValidateCreateFeedback(in CreateFeedbackInput) error {
	fields := map[string]string{}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields["title"] = "must not be empty"
	} else if len(title) > maxTitleLen {
		fields["title"] = "must be at most 200 characters"
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		fields["description"] = "must not be empty"
	} else if len(desc) > maxDescriptionLen {
		fields["description"] = "must be at most 2000 characters"
	}
	if in.CategoryID == 0 {
		fields["category_id"] = "is required"
	}
	if in.Priority != "" && !in.Priority.Valid() {
		fields["priority"] = "must be one of low, medium, high, urgent"
	}
	if len(fields) > 0 {
		return &errs.ValidationError{Fields: fields}
	}
	return nil
}

func (s *FeedbackService) Create(ctx context.Context, submitter *model.User, input CreateFeedbackInput) (*model.Feedback, error) {
	if err := policy.Authorize(submitter, policy.OpCreateFeedback); err != nil {
		return nil, err
	}
	if err := ValidateCreateFeedback(input); err != nil {
		return nil, err
	}

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, input.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewValidation("category_id", "category does not exist")
		}
		return nil, err
	}
	if !category.Active {
		return nil, errs.NewValidation("category_id", "category is not active")
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	fb := &model.Feedback{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		CategoryID:  category.ID,
		Priority:    priority,
		Status:      model.StatusPending,
		SubmitterID: submitter.ID,
		IsAnonymous: input.IsAnonymous,
		Attachment:  input.Attachment,
	}
	// Route to the admin who triages this category, when one exists.
	var assignee model.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ? AND LOWER(admin_category) = LOWER(?)",
			model.RoleAdmin, true, category.Name).
		First(&assignee).Error
	if err == nil {
		fb.AssignedToID = &assignee.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, err
	}
	fb.Category = category
	fb.Submitter = *submitter
	if s.producer != nil {
		s.producer.ProduceAsync("feedback.created", kafka.FeedbackEventPayload(fb))
	}
	return fb, nil
}

func (s *FeedbackService) load(ctx context.Context, id uint64) (*model.Feedback, error) {
	var fb model.Feedback
	err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Submitter").
		Preload("AssignedTo").
		First(&fb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &fb, nil
}

func (s *FeedbackService) GetByID(ctx context.Context, actor *model.User, id uint64) (*model.Feedback, error) {
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, fb) {
		// Existence of other users' feedback is not disclosed.
		return nil, errs.ErrFeedbackNotFound
	}
	return fb, nil
}

type FeedbackFilter struct {
	Status     model.Status
	Priority   model.Priority
	CategoryID uint64
	Search     string
	Limit      int
	Offset     int
}

func (s *FeedbackService) List(ctx context.Context, actor *model.User, filter FeedbackFilter) ([]model.Feedback, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errs.ErrInvalidEnumValue
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, 0, errs.ErrInvalidEnumValue
	}

	tx := s.db.WithContext(ctx).Model(&model.Feedback{})
	if !actor.Role.Privileged() {
		tx = tx.Where("submitter_id = ?", actor.ID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		tx = tx.Where("priority = ?", filter.Priority)
	}
	if filter.CategoryID != 0 {
		tx = tx.Where("category_id = ?", filter.CategoryID)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	var items []model.Feedback
	err := tx.Preload("Category").Preload("Submitter").Preload("AssignedTo").
		Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Transition moves a feedback along the lifecycle graph. The status update is
// a compare-and-set on (id, current status): of two concurrent transitions
// from the same source state exactly one wins, the other gets ErrConflict.
// The history entry is written in the same transaction, so status change and
// audit record land together or not at all.
func (s *FeedbackService) Transition(ctx context.Context, actor *model.User, id uint64, target model.Status) (*model.Feedback, error) {
	if err := policy.Authorize(actor, policy.OpTransitionFeedback); err != nil {
		return nil, err
	}
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := model.CheckTransition(fb.Status, target); err != nil {
		return nil, err
	}

	now := time.Now()
	changes := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	if target == model.StatusResolved {
		changes["resolved_at"] = now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Feedback{}).
			Where("id = ? AND status = ?", fb.ID, fb.Status).
			Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrConflict
		}
		entry := &model.HistoryEntry{
			FeedbackID:      fb.ID,
			ActorID:         actor.ID,
			OldStatus:       fb.Status,
			NewStatus:       target,
			OldAssignedToID: fb.AssignedToID,
			NewAssignedToID: fb.AssignedToID,
			Note:            "status changed by " + actor.Email,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	fb.Status = target
	fb.UpdatedAt = now
	if target == model.StatusResolved {
		fb.ResolvedAt = &now
	}
	if s.producer != nil {
		s.producer.ProduceAsync("feedback.status_changed", kafka.FeedbackEventPayload(fb))
	}
	return fb, nil
}

// Assign hands the feedback to an active admin. Recorded in history like a
// status change, but the status itself is untouched.
func (s *FeedbackService) Assign(ctx context.Context, actor *model.User, id, assigneeID uint64) (*model.Feedback, error) {
	if err := policy.Authorize(actor, policy.OpAssignFeedback); err != nil {
		return nil, err
	}
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if fb.Status.Terminal() {
		return nil, errs.ErrInvalidState
	}
	var assignee model.User
	if err := s.db.WithContext(ctx).First(&assignee, assigneeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, err
	}
	if !assignee.Role.Privileged() || !assignee.IsActive {
		return nil, errs.NewValidation("assigned_to_id", "assignee must be an active admin")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Feedback{}).
			Where("id = ?", fb.ID).
			Updates(map[string]interface{}{"assigned_to_id": assignee.ID, "updated_at": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		entry := &model.HistoryEntry{
			FeedbackID:      fb.ID,
			ActorID:         actor.ID,
			OldStatus:       fb.Status,
			NewStatus:       fb.Status,
			OldAssignedToID: fb.AssignedToID,
			NewAssignedToID: &assignee.ID,
			Note:            "assigned to " + assignee.Email + " by " + actor.Email,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	fb.AssignedToID = &assignee.ID
	fb.AssignedTo = &assignee
	return fb, nil
}

func (s *FeedbackService) AddComment(ctx context.Context, actor *model.User, feedbackID uint64, body string, internal bool) (*model.Comment, error) {
	fb, err := s.load(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(actor, fb) {
		return nil, errs.ErrForbidden
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.NewValidation("body", "must not be empty")
	}
	if len(body) > maxCommentLen {
		return nil, errs.NewValidation("body", "must be at most 1000 characters")
	}
	if internal && !actor.Role.Privileged() {
		return nil, errs.ErrForbidden
	}

	comment := &model.Comment{
		FeedbackID: fb.ID,
		AuthorID:   actor.ID,
		Body:       body,
		IsInternal: internal,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	comment.Author = *actor
	if s.producer != nil {
		payload := kafka.FeedbackEventPayload(fb)
		payload["comment_id"] = int64(comment.ID)
		s.producer.ProduceAsync("feedback.comment_added", payload)
	}
	return comment, nil
}

// ListComments returns comments in insertion order, ties broken by id.
// Internal comments are stripped for non-privileged readers.
func (s *FeedbackService) ListComments(ctx context.Context, actor *model.User, feedbackID uint64) ([]model.Comment, error) {
	fb, err := s.load(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, fb) {
		return nil, errs.ErrFeedbackNotFound
	}
	tx := s.db.WithContext(ctx).Where("feedback_id = ?", fb.ID)
	if !actor.Role.Privileged() {
		tx = tx.Where("is_internal = ?", false)
	}
	var comments []model.Comment
	if err := tx.Preload("Author").Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *FeedbackService) History(ctx context.Context, actor *model.User, feedbackID uint64) ([]model.HistoryEntry, error) {
	fb, err := s.load(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, fb) {
		return nil, errs.ErrFeedbackNotFound
	}
	var entries []model.HistoryEntry
	err = s.db.WithContext(ctx).
		Where("feedback_id = ?", fb.ID).
		Preload("Actor").
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Rate records the submitter's satisfaction rating, once, and only after the
// feedback reached resolved or closed. The guarded update (rating IS NULL)
// makes a double submit lose cleanly.
func (s *FeedbackService) Rate(ctx context.Context, actor *model.User, id uint64, rating int) (*model.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, errs.NewValidation("rating", "must be between 1 and 5")
	}
	fb, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanRate(actor, fb) {
		return nil, errs.ErrForbidden
	}
	if fb.Status != model.StatusResolved && fb.Status != model.StatusClosed {
		return nil, errs.ErrInvalidState
	}
	if fb.Rating != nil {
		return nil, errs.ErrInvalidState
	}
	res := s.db.WithContext(ctx).Model(&model.Feedback{}).
		Where("id = ? AND rating IS NULL", fb.ID).
		Updates(map[string]interface{}{"rating": rating, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.ErrInvalidState
	}
	fb.Rating = &rating
	return fb, nil
}

// Delete tombstones the record (soft delete); comments and history are kept
// for audit but become unreachable through the API.
func (s *FeedbackService) Delete(ctx context.Context, actor *model.User, id uint64) error {
	if err := policy.Authorize(actor, policy.OpDeleteFeedback); err != nil {
		return err
	}
	fb, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(fb).Error
}
