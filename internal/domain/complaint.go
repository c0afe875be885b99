package domain

import (
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints. Any status may
// be set from any other.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusCompleted  ComplaintStatus = "Completed"
)

// ComplaintStatuses lists every status in lifecycle order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusCompleted,
}

// Valid reports whether s is a known status.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range ComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// WorkerTypes are the maintenance professions a complaint can ask for and an
// admin can work as.
var WorkerTypes = []string{
	"Plumber",
	"Electrician",
	"Carpenter",
	"Cleaner",
	"Security",
	"Maintenance",
	"Gardener",
	"Painter",
	"AC Technician",
	"Other",
}

// IsWorkerType reports whether name is one of WorkerTypes.
func IsWorkerType(name string) bool {
	for _, wt := range WorkerTypes {
		if wt == name {
			return true
		}
	}
	return false
}

// Complaint is a maintenance request raised by a resident. UserName and
// ResidencyID are copied from the creator when the complaint is raised.
type Complaint struct {
	ID          string
	UserID      string
	ResidencyID string
	ProblemName string
	WorkerType  string
	Description string
	PhotoKey    *string
	Status      ComplaintStatus
	CreatedAt   time.Time
	UserName    string
}

// ComplaintStats counts complaints per status.
type ComplaintStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}

// CountComplaints tallies complaints by status.
func CountComplaints(complaints []Complaint) ComplaintStats {
	stats := ComplaintStats{Total: len(complaints)}
	for _, c := range complaints {
		switch c.Status {
		case ComplaintStatusPending:
			stats.Pending++
		case ComplaintStatusInProgress:
			stats.InProgress++
		case ComplaintStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

// ParseComplaintStatus resolves a status name ignoring case and spaces, so
// "in progress" and "InProgress" both name ComplaintStatusInProgress.
func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	for _, status := range ComplaintStatuses {
		if strings.EqualFold(strings.ReplaceAll(string(status), " ", ""), normalized) {
			return status, true
		}
	}
	return "", false
}
