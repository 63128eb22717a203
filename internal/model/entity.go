package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleFaculty    Role = "faculty"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Privileged reports whether the role may see anonymous submitter identities,
// internal comments, and every feedback record.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FirstName    string `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`
	Role         Role   `gorm:"type:varchar(20);index;not null" json:"role"`
	Department   string `gorm:"type:varchar(100)" json:"department,omitempty"`

	// AdminCategory — category name this admin triages; feedback created in
	// that category is auto-assigned to them. Empty for non-admins.
	AdminCategory string `gorm:"type:varchar(100)" json:"admin_category,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Icon        string `gorm:"type:varchar(50)" json:"icon,omitempty"`
	Active      bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feedback struct {
	ID          uint64   `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"type:varchar(200);not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	CategoryID  uint64   `gorm:"index;not null" json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category"`

	Priority Priority `gorm:"type:varchar(20);index;not null" json:"priority"`
	Status   Status   `gorm:"type:varchar(20);index;not null" json:"status"`

	SubmitterID  uint64  `gorm:"index;not null" json:"-"`
	Submitter    User    `gorm:"foreignKey:SubmitterID" json:"-"`
	IsAnonymous  bool    `gorm:"not null;default:false" json:"is_anonymous"`
	AssignedToID *uint64 `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"-"`

	// Attachment is the blob-store object key, not a URL.
	Attachment string `gorm:"type:varchar(255)" json:"attachment,omitempty"`

	Rating *int `json:"rating,omitempty"`

	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment is an append-only annotation on a feedback record. Internal
// comments are visible to admins only.
type Comment struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	FeedbackID uint64 `gorm:"index;not null" json:"feedback_id"`
	AuthorID   uint64 `gorm:"index;not null" json:"author_id"`
	Author     User   `gorm:"foreignKey:AuthorID" json:"-"`
	Body       string `gorm:"type:text;not null" json:"body"`
	IsInternal bool   `gorm:"not null;default:false" json:"is_internal"`

	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is the immutable audit record of a status or assignment
// change. Written in the same transaction as the change itself.
type HistoryEntry struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	FeedbackID uint64 `gorm:"index;not null" json:"feedback_id"`
	ActorID    uint64 `gorm:"index;not null" json:"actor_id"`
	Actor      User   `gorm:"foreignKey:ActorID" json:"-"`

	OldStatus Status `gorm:"type:varchar(20)" json:"old_status,omitempty"`
	NewStatus Status `gorm:"type:varchar(20)" json:"new_status,omitempty"`

	OldAssignedToID *uint64 `json:"old_assigned_to_id,omitempty"`
	NewAssignedToID *uint64 `json:"new_assigned_to_id,omitempty"`

	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
