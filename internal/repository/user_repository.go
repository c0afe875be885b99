package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fixithub/complaint-service/internal/domain"
)

// UserRepository defines persistence access for residency members.
type UserRepository interface {
	// Create inserts the user unless the residency already holds limit
	// members with the same role, in which case ErrCapacityReached is
	// returned and nothing is written.
	Create(ctx context.Context, user *domain.User, limit int) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIdentifier returns the first user whose phone or username equals
	// identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	ListByResidency(ctx context.Context, residencyID string) ([]domain.User, error)
}

type userRepository struct {
	pool DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool DB) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, phone, email, role, residency_id, working_profession`

func (r *userRepository) Create(ctx context.Context, user *domain.User, limit int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The residency row lock serializes concurrent registrations into the
	// same residency so the count below stays accurate until commit.
	var residencyID string
	if err := tx.QueryRow(ctx, `SELECT id FROM residencies WHERE id=$1 FOR UPDATE`, user.ResidencyID).Scan(&residencyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE residency_id=$1 AND role=$2`,
		user.ResidencyID, user.Role,
	).Scan(&count); err != nil {
		return err
	}
	if count >= limit {
		return ErrCapacityReached
	}

	const query = `
        INSERT INTO users (id, username, phone, email, role, residency_id, working_profession)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := tx.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Phone,
		user.Email,
		user.Role,
		user.ResidencyID,
		user.WorkingProfession,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone=$1 OR username=$1 ORDER BY seq ASC LIMIT 1`
	return r.fetchSingle(ctx, query, identifier)
}

func (r *userRepository) ListByResidency(ctx context.Context, residencyID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE residency_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, residencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Phone,
		&user.Email,
		&user.Role,
		&user.ResidencyID,
		&user.WorkingProfession,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
