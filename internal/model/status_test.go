package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/college-feedback/feedback-service/internal/errs"
)

func TestLifecycleGraph(t *testing.T) {
	legal := []struct {
		from, to Status
	}{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusRejected},
		{StatusInProgress, StatusResolved},
		{StatusInProgress, StatusRejected},
		{StatusResolved, StatusClosed},
	}
	for _, tc := range legal {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be legal", tc.from, tc.to)
		assert.NoError(t, CheckTransition(tc.from, tc.to))
	}

	illegal := []struct {
		from, to Status
	}{
		{StatusPending, StatusResolved},
		{StatusPending, StatusClosed},
		{StatusInProgress, StatusClosed},
		{StatusInProgress, StatusPending},
		{StatusResolved, StatusRejected},
		{StatusResolved, StatusInProgress},
		{StatusRejected, StatusInProgress},
		{StatusClosed, StatusResolved},
		{StatusClosed, StatusPending},
	}
	for _, tc := range illegal {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be illegal", tc.from, tc.to)
	}
}

func TestTerminalStatusesAdmitNoSuccessors(t *testing.T) {
	for _, terminal := range []Status{StatusClosed, StatusRejected} {
		assert.True(t, terminal.Terminal())
		for _, target := range Statuses {
			assert.False(t, CanTransition(terminal, target), "%s -> %s", terminal, target)
		}
	}
	for _, s := range []Status{StatusPending, StatusInProgress, StatusResolved} {
		assert.False(t, s.Terminal())
	}
}

func TestCheckTransitionDistinguishesErrors(t *testing.T) {
	err := CheckTransition(StatusPending, Status("escalated"))
	assert.True(t, errors.Is(err, errs.ErrInvalidEnumValue))

	err = CheckTransition(StatusPending, StatusClosed)
	assert.True(t, errors.Is(err, errs.ErrInvalidTransition))

	err = CheckTransition(StatusClosed, StatusInProgress)
	assert.True(t, errors.Is(err, errs.ErrInvalidTransition))
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("open").Valid())
	assert.False(t, Status("").Valid())
}

func TestPrioritySeverityOrder(t *testing.T) {
	assert.Less(t, PriorityLow.Severity(), PriorityMedium.Severity())
	assert.Less(t, PriorityMedium.Severity(), PriorityHigh.Severity())
	assert.Less(t, PriorityHigh.Severity(), PriorityUrgent.Severity())

	for _, p := range Priorities {
		assert.True(t, p.Valid())
	}
	assert.False(t, Priority("critical").Valid())
}
