package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fixithub/complaint-service/internal/domain"
)

// ResidencyRepository reads residencies. Create exists for seeding only.
type ResidencyRepository interface {
	Create(ctx context.Context, residency *domain.Residency) error
	GetByID(ctx context.Context, id string) (*domain.Residency, error)
	List(ctx context.Context) ([]domain.Residency, error)
}

type residencyRepository struct {
	pool DB
}

// NewResidencyRepository builds the repository.
func NewResidencyRepository(pool DB) ResidencyRepository {
	return &residencyRepository{pool: pool}
}

func (r *residencyRepository) Create(ctx context.Context, residency *domain.Residency) error {
	const query = `
        INSERT INTO residencies (id, name, phone, email)
        VALUES ($1,$2,$3,$4)`
	_, err := r.pool.Exec(ctx, query,
		residency.ID,
		residency.Name,
		residency.Phone,
		residency.Email,
	)
	return err
}

func (r *residencyRepository) GetByID(ctx context.Context, id string) (*domain.Residency, error) {
	const query = `
        SELECT id, name, phone, email
        FROM residencies WHERE id=$1`
	var residency domain.Residency
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&residency.ID,
		&residency.Name,
		&residency.Phone,
		&residency.Email,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &residency, nil
}

func (r *residencyRepository) List(ctx context.Context) ([]domain.Residency, error) {
	const query = `
        SELECT id, name, phone, email
        FROM residencies ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Residency{}
	for rows.Next() {
		var residency domain.Residency
		if err := rows.Scan(&residency.ID, &residency.Name, &residency.Phone, &residency.Email); err != nil {
			return nil, err
		}
		result = append(result, residency)
	}
	return result, rows.Err()
}
