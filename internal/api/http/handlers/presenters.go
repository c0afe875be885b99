package handlers

import (
	"context"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Phone:             user.Phone,
		Email:             user.Email,
		Role:              string(user.Role),
		ResidencyID:       user.ResidencyID,
		WorkingProfession: user.WorkingProfession,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}

func residencyResponse(residency *domain.Residency) dto.ResidencyResponse {
	return dto.ResidencyResponse{
		ID:    residency.ID,
		Name:  residency.Name,
		Phone: residency.Phone,
		Email: residency.Email,
	}
}

func complaintResponse(ctx context.Context, complaints *service.ComplaintService, complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:          complaint.ID,
		UserID:      complaint.UserID,
		ResidencyID: complaint.ResidencyID,
		ProblemName: complaint.ProblemName,
		WorkerType:  complaint.WorkerType,
		Description: complaint.Description,
		PhotoURL:    complaints.PhotoURL(ctx, complaint),
		Status:      string(complaint.Status),
		CreatedAt:   complaint.CreatedAt,
		UserName:    complaint.UserName,
	}
}

func complaintResponses(ctx context.Context, complaints *service.ComplaintService, items []domain.Complaint) []dto.ComplaintResponse {
	out := make([]dto.ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, complaintResponse(ctx, complaints, &items[i]))
	}
	return out
}

func statsResponse(stats domain.ComplaintStats) dto.StatsResponse {
	return dto.StatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
	}
}
