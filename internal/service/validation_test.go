package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/college-feedback/feedback-service/internal/errs"
	"github.com/college-feedback/feedback-service/internal/model"
)

func TestValidateRegister(t *testing.T) {
	valid := RegisterInput{
		Email:     "student@college.edu",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      model.RoleStudent,
	}
	assert.NoError(t, ValidateRegister(valid))

	cases := []struct {
		name  string
		mut   func(*RegisterInput)
		field string
	}{
		{"empty email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"email without at", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
		{"missing role", func(in *RegisterInput) { in.Role = "" }, "role"},
		{"unknown role", func(in *RegisterInput) { in.Role = "dean" }, "role"},
		{"self-registered admin", func(in *RegisterInput) { in.Role = model.RoleAdmin }, "role"},
		{"self-registered superadmin", func(in *RegisterInput) { in.Role = model.RoleSuperAdmin }, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mut(&in)
			err := ValidateRegister(in)
			ve, ok := errs.AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestValidateRegisterCollectsAllProblems(t *testing.T) {
	err := ValidateRegister(RegisterInput{Email: "nope", Password: "x", Role: "dean"})
	ve, ok := errs.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 3)
}

func TestValidateCreateFeedback(t *testing.T) {
	valid := CreateFeedbackInput{
		Title:       "Projector broken in room 204",
		Description: "The projector flickers and shuts off after a few minutes.",
		CategoryID:  1,
		Priority:    model.PriorityHigh,
	}
	assert.NoError(t, ValidateCreateFeedback(valid))

	t.Run("default priority allowed", func(t *testing.T) {
		in := valid
		in.Priority = ""
		assert.NoError(t, ValidateCreateFeedback(in))
	})

	cases := []struct {
		name  string
		mut   func(*CreateFeedbackInput)
		field string
	}{
		{"empty title", func(in *CreateFeedbackInput) { in.Title = "  " }, "title"},
		{"title too long", func(in *CreateFeedbackInput) { in.Title = strings.Repeat("x", 201) }, "title"},
		{"empty description", func(in *CreateFeedbackInput) { in.Description = "" }, "description"},
		{"description too long", func(in *CreateFeedbackInput) { in.Description = strings.Repeat("x", 2001) }, "description"},
		{"missing category", func(in *CreateFeedbackInput) { in.CategoryID = 0 }, "category_id"},
		{"unknown priority", func(in *CreateFeedbackInput) { in.Priority = "critical" }, "priority"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mut(&in)
			err := ValidateCreateFeedback(in)
			ve, ok := errs.AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestValidateCreateFeedbackBoundaryLengths(t *testing.T) {
	in := CreateFeedbackInput{
		Title:       strings.Repeat("t", 200),
		Description: strings.Repeat("d", 2000),
		CategoryID:  1,
	}
	assert.NoError(t, ValidateCreateFeedback(in))
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &errs.ValidationError{Fields: map[string]string{
		"title":       "must not be empty",
		"category_id": "is required",
	}}
	assert.Equal(t, "validation failed: category_id: is required; title: must not be empty", err.Error())
}
