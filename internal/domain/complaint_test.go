package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseComplaintStatus(t *testing.T) {
	cases := map[string]ComplaintStatus{
		"Pending":     ComplaintStatusPending,
		"pending":     ComplaintStatusPending,
		"In Progress": ComplaintStatusInProgress,
		"InProgress":  ComplaintStatusInProgress,
		" completed ": ComplaintStatusCompleted,
	}
	for raw, want := range cases {
		got, ok := ParseComplaintStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "done", "all", "In_Progress"} {
		_, ok := ParseComplaintStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestCountComplaints(t *testing.T) {
	stats := CountComplaints([]Complaint{
		{Status: ComplaintStatusPending},
		{Status: ComplaintStatusPending},
		{Status: ComplaintStatusInProgress},
		{Status: ComplaintStatusCompleted},
	})
	assert.Equal(t, ComplaintStats{Total: 4, Pending: 2, InProgress: 1, Completed: 1}, stats)
	assert.Equal(t, ComplaintStats{}, CountComplaints(nil))
}

func TestIsWorkerType(t *testing.T) {
	assert.True(t, IsWorkerType("AC Technician"))
	assert.False(t, IsWorkerType("plumber"))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("staff").Valid())
}
