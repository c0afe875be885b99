package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

var (
	// ErrNotFound is returned when a lookup by id matches nothing.
	ErrNotFound = apperrors.ErrRecordNotFound
	// ErrCapacityReached is returned when a residency already holds the
	// maximum number of members for a role.
	ErrCapacityReached = errors.New("residency capacity reached")
)

// DB is the part of a pgx pool the Postgres repositories use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles the stores shared by the services.
type Repositories struct {
	Residencies ResidencyRepository
	Users       UserRepository
	Complaints  ComplaintRepository
}

// NewPostgresRepositories returns Postgres-backed repositories.
func NewPostgresRepositories(pool DB) Repositories {
	return Repositories{
		Residencies: NewResidencyRepository(pool),
		Users:       NewUserRepository(pool),
		Complaints:  NewComplaintRepository(pool),
	}
}
