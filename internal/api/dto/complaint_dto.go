package dto

import "time"

// CreateComplaintRequest payload. Multipart requests carry the same fields
// as form values plus an optional "photo" file part.
type CreateComplaintRequest struct {
	ProblemName string `json:"problemName" form:"problemName" validate:"required,max=200"`
	WorkerType  string `json:"workerType" form:"workerType" validate:"required,max=50"`
	Description string `json:"description" form:"description" validate:"required,max=2000"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ComplaintResponse describes a complaint.
type ComplaintResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ResidencyID string    `json:"residencyId"`
	ProblemName string    `json:"problemName"`
	WorkerType  string    `json:"workerType"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UserName    string    `json:"userName"`
}

// StatsResponse counts complaints per status.
type StatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// UserDashboardResponse is the resident home screen.
type UserDashboardResponse struct {
	Residency   ResidencyResponse   `json:"residency"`
	MemberCount int                 `json:"memberCount"`
	Stats       StatsResponse       `json:"stats"`
	Complaints  []ComplaintResponse `json:"complaints"`
}

// AdminDashboardResponse is the admin home screen.
type AdminDashboardResponse struct {
	Residency  ResidencyResponse   `json:"residency"`
	UserCount  int                 `json:"userCount"`
	AdminCount int                 `json:"adminCount"`
	Stats      StatsResponse       `json:"stats"`
	Complaints []ComplaintResponse `json:"complaints"`
}
