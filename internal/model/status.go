package model

import "github.com/college-feedback/feedback-service/internal/errs"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusRejected   Status = "rejected"
)

// Statuses in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusRejected}

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusClosed:     "Closed",
	StatusRejected:   "Rejected",
}

func (s Status) Label() string { return statusLabels[s] }

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal statuses admit no further transitions.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusRejected
}

// transitions is the lifecycle graph. One-directional: once closed or
// rejected, a feedback never moves again.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
	StatusResolved:   {StatusClosed},
	StatusClosed:     {},
	StatusRejected:   {},
}

// CanTransition reports whether target is a legal successor of s.
func CanTransition(s, target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CheckTransition validates a requested status change, distinguishing an
// unknown status from an illegal edge.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return errs.ErrInvalidEnumValue
	}
	if !CanTransition(from, to) {
		return errs.ErrInvalidTransition
	}
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// priorityRank orders priorities by severity: low < medium < high < urgent.
var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityMedium: 1,
	PriorityHigh:   2,
	PriorityUrgent: 3,
}

func (p Priority) Label() string { return priorityLabels[p] }

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Severity returns the rank used for ordering; higher means more severe.
func (p Priority) Severity() int { return priorityRank[p] }
