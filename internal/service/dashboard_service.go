package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/cache"
	"github.com/college-feedback/feedback-service/internal/model"
)

const (
	defaultRecentLimit = 10
	defaultUrgentLimit = 10
	defaultTrendDays   = 7
)

type DashboardServicer interface {
	Snapshot(ctx context.Context, actor *model.User) (*DashboardSnapshot, error)
}

// DashboardSnapshot is the aggregate payload behind the admin dashboard.
// Every enum bucket is present even when its count is zero, so clients can
// render fixed chart axes.
type DashboardSnapshot struct {
	Total          int64             `json:"total"`
	StatusCounts   map[string]int64  `json:"status_counts"`
	PriorityCounts map[string]int64  `json:"priority_counts"`
	CategoryCounts map[string]int64  `json:"category_counts"`
	Departments    []DepartmentStats `json:"department_stats"`
	Trends         []TrendPoint      `json:"feedback_trends"`
	Recent         []model.Feedback  `json:"recent"`
	Urgent         []model.Feedback  `json:"urgent"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

type DepartmentStats struct {
	Department string `json:"department"`
	Total      int64  `json:"total"`
	Resolved   int64  `json:"resolved"`
	Pending    int64  `json:"pending"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardService struct {
	db    *gorm.DB
	cache *cache.Dashboard
}

func NewDashboardService(db *gorm.DB, c *cache.Dashboard) *DashboardService {
	return &DashboardService{db: db, cache: c}
}

type bucketRow struct {
	Key   string
	Count int64
}

// Snapshot computes the dashboard aggregate. Admins see the whole system,
// everyone else gets the same shape scoped to their own submissions. Results
// are cached per scope for a short TTL.
func (s *DashboardService) Snapshot(ctx context.Context, actor *model.User) (*DashboardSnapshot, error) {
	cacheKey := "dashboard:all"
	scoped := !actor.Role.Privileged()
	if scoped {
		cacheKey = fmt.Sprintf("dashboard:user:%d", actor.ID)
	}

	var snap DashboardSnapshot
	if s.cache != nil && s.cache.Get(ctx, cacheKey, &snap) {
		return &snap, nil
	}

	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&model.Feedback{})
		if scoped {
			tx = tx.Where("submitter_id = ?", actor.ID)
		}
		return tx
	}

	if err := base().Count(&snap.Total).Error; err != nil {
		return nil, err
	}

	snap.StatusCounts = map[string]int64{}
	for _, st := range model.Statuses {
		snap.StatusCounts[string(st)] = 0
	}
	var rows []bucketRow
	err := base().Select("status AS key, COUNT(*) AS count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		snap.StatusCounts[r.Key] = r.Count
	}

	snap.PriorityCounts = map[string]int64{}
	for _, p := range model.Priorities {
		snap.PriorityCounts[string(p)] = 0
	}
	rows = rows[:0]
	err = base().Select("priority AS key, COUNT(*) AS count").Group("priority").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		snap.PriorityCounts[r.Key] = r.Count
	}

	snap.CategoryCounts = map[string]int64{}
	rows = rows[:0]
	err = base().
		Select("categories.name AS key, COUNT(*) AS count").
		Joins("JOIN categories ON categories.id = feedbacks.category_id").
		Group("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		snap.CategoryCounts[r.Key] = r.Count
	}

	if !scoped {
		if err := s.departmentStats(ctx, &snap); err != nil {
			return nil, err
		}
	} else {
		snap.Departments = []DepartmentStats{}
	}

	if err := s.trends(base, &snap, defaultTrendDays); err != nil {
		return nil, err
	}

	err = s.recentFeedback(base().Preload("Category").Preload("Submitter").Preload("AssignedTo")).
		Find(&snap.Recent).Error
	if err != nil {
		return nil, err
	}
	err = s.urgentFeedback(base().Preload("Category").Preload("Submitter").Preload("AssignedTo")).
		Find(&snap.Urgent).Error
	if err != nil {
		return nil, err
	}
	if snap.Recent == nil {
		snap.Recent = []model.Feedback{}
	}
	if snap.Urgent == nil {
		snap.Urgent = []model.Feedback{}
	}

	snap.GeneratedAt = time.Now().UTC()
	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, &snap)
	}
	return &snap, nil
}

// recentFeedback caps the newest-first list at defaultRecentLimit.
func (s *DashboardService) recentFeedback(base *gorm.DB) *gorm.DB {
	return base.Order("created_at DESC").Limit(defaultRecentLimit)
}

// urgentFeedback lists still-open high/urgent records, newest first, capped at
// defaultUrgentLimit like the recent list.
func (s *DashboardService) urgentFeedback(base *gorm.DB) *gorm.DB {
	return base.
		Where("priority IN ?", []model.Priority{model.PriorityHigh, model.PriorityUrgent}).
		Where("status IN ?", []model.Status{model.StatusPending, model.StatusInProgress}).
		Order("created_at DESC").
		Limit(defaultUrgentLimit)
}

func (s *DashboardService) departmentStats(ctx context.Context, snap *DashboardSnapshot) error {
	type row struct {
		Department string
		Total      int64
		Resolved   int64
		Pending    int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Feedback{}).
		Select(`COALESCE(NULLIF(users.department, ''), 'unspecified') AS department,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE feedbacks.status IN ('resolved', 'closed')) AS resolved,
			COUNT(*) FILTER (WHERE feedbacks.status = 'pending') AS pending`).
		Joins("JOIN users ON users.id = feedbacks.submitter_id").
		Group("1").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	snap.Departments = make([]DepartmentStats, 0, len(rows))
	for _, r := range rows {
		snap.Departments = append(snap.Departments, DepartmentStats(r))
	}
	return nil
}

// trends fills one point per day for the trailing window, zero-filling days
// with no submissions.
func (s *DashboardService) trends(base func() *gorm.DB, snap *DashboardSnapshot, days int) error {
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))
	type row struct {
		Day   time.Time
		Count int64
	}
	var rows []row
	err := base().
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("1").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	byDay := map[string]int64{}
	for _, r := range rows {
		byDay[r.Day.UTC().Format("2006-01-02")] = r.Count
	}
	snap.Trends = make([]TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		snap.Trends = append(snap.Trends, TrendPoint{Date: day, Count: byDay[day]})
	}
	return nil
}
