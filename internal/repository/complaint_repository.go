package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fixithub/complaint-service/internal/domain"
)

// ComplaintFilter narrows complaint listings. Nil fields do not filter.
// Results are always newest first.
type ComplaintFilter struct {
	UserID      *string
	ResidencyID *string
	Statuses    []domain.ComplaintStatus
	Limit       int
	Offset      int
}

// Matches reports whether the complaint passes the filter predicates.
func (f ComplaintFilter) Matches(c *domain.Complaint) bool {
	if f.UserID != nil && c.UserID != *f.UserID {
		return false
	}
	if f.ResidencyID != nil && c.ResidencyID != *f.ResidencyID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, status := range f.Statuses {
		if c.Status == status {
			return true
		}
	}
	return false
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error
	Delete(ctx context.Context, id string) error
}

type complaintRepository struct {
	pool DB
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool DB) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, user_id, residency_id, problem_name, worker_type, description,
               photo_key, status, created_at, user_name`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, user_id, residency_id, problem_name, worker_type, description,
            photo_key, status, created_at, user_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.pool.Exec(ctx, query,
		complaint.ID,
		complaint.UserID,
		complaint.ResidencyID,
		complaint.ProblemName,
		complaint.WorkerType,
		complaint.Description,
		complaint.PhotoKey,
		complaint.Status,
		complaint.CreatedAt,
		complaint.UserName,
	)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.ResidencyID != nil {
		args = append(args, *filter.ResidencyID)
		clauses = append(clauses, fmt.Sprintf("residency_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY seq DESC`,
		complaintColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Complaint{}
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE complaints SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.UserID,
		&complaint.ResidencyID,
		&complaint.ProblemName,
		&complaint.WorkerType,
		&complaint.Description,
		&complaint.PhotoKey,
		&complaint.Status,
		&complaint.CreatedAt,
		&complaint.UserName,
	); err != nil {
		return nil, err
	}
	return &complaint, nil
}
