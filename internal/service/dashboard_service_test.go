package service

import (
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/college-feedback/feedback-service/internal/model"
)

// dryRunDB builds SQL without touching a server: lib/pq does not dial until a
// statement executes, and DryRun stops execution at the built statement.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, err := sql.Open("postgres", "host=localhost sslmode=disable")
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestDashboardRecentListIsCapped(t *testing.T) {
	db := dryRunDB(t)
	svc := NewDashboardService(db, nil)

	var items []model.Feedback
	stmt := svc.recentFeedback(db.Model(&model.Feedback{})).Find(&items).Statement
	assert.Contains(t, stmt.SQL.String(), "LIMIT")
	assert.Contains(t, stmt.Vars, defaultRecentLimit)
}

func TestDashboardUrgentListIsCapped(t *testing.T) {
	db := dryRunDB(t)
	svc := NewDashboardService(db, nil)

	var items []model.Feedback
	stmt := svc.urgentFeedback(db.Model(&model.Feedback{})).Find(&items).Statement
	assert.Contains(t, stmt.SQL.String(), "LIMIT")
	assert.Contains(t, stmt.Vars, defaultUrgentLimit)
	assert.Contains(t, stmt.SQL.String(), "priority IN")
	assert.Contains(t, stmt.SQL.String(), "status IN")
	assert.Contains(t, stmt.Vars, model.PriorityUrgent)
	assert.Contains(t, stmt.Vars, model.StatusInProgress)
}
