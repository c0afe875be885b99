// Package seed loads the sample residencies, members and complaints the
// service starts with.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/repository"
)

//go:embed sample.yaml
var sampleData []byte

// Fixture is the on-disk seed format.
type Fixture struct {
	Residencies []ResidencyRecord `yaml:"residencies"`
	Users       []UserRecord      `yaml:"users"`
	// Complaints are listed newest first.
	Complaints []ComplaintRecord `yaml:"complaints"`
}

// ResidencyRecord is a residency as written in the fixture.
type ResidencyRecord struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

// UserRecord is a member account. Role is "user" or "admin"; admins carry a
// WorkingProfession.
type UserRecord struct {
	ID                string  `yaml:"id"`
	Username          string  `yaml:"username"`
	Phone             string  `yaml:"phone"`
	Email             *string `yaml:"email"`
	Role              string  `yaml:"role"`
	ResidencyID       string  `yaml:"residencyId"`
	WorkingProfession *string `yaml:"workingProfession"`
}

// ComplaintRecord is a complaint with its status spelled as on the wire.
type ComplaintRecord struct {
	ID          string    `yaml:"id"`
	UserID      string    `yaml:"userId"`
	ResidencyID string    `yaml:"residencyId"`
	ProblemName string    `yaml:"problemName"`
	WorkerType  string    `yaml:"workerType"`
	Description string    `yaml:"description"`
	PhotoKey    *string   `yaml:"photoKey"`
	Status      string    `yaml:"status"`
	CreatedAt   time.Time `yaml:"createdAt"`
	UserName    string    `yaml:"userName"`
}

// Load reads the fixture at path, or the embedded sample when path is empty.
func Load(path string) (*Fixture, error) {
	data := sampleData
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and checks a fixture.
func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for _, u := range fixture.Users {
		role := domain.Role(u.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %s: unknown role %q", u.ID, u.Role)
		}
		if role == domain.RoleAdmin && (u.WorkingProfession == nil || *u.WorkingProfession == "") {
			return nil, fmt.Errorf("seed admin %s: working profession missing", u.ID)
		}
	}
	for _, c := range fixture.Complaints {
		if !domain.ComplaintStatus(c.Status).Valid() {
			return nil, fmt.Errorf("seed complaint %s: unknown status %q", c.ID, c.Status)
		}
	}
	return &fixture, nil
}

// Apply writes the fixture into empty repositories. Stores that already hold
// residencies are left untouched.
func Apply(ctx context.Context, repos repository.Repositories, fixture *Fixture, limits config.ResidencyConfig, logger *zap.Logger) error {
	existing, err := repos.Residencies.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("seed skipped, store not empty", zap.Int("residencies", len(existing)))
		return nil
	}

	for _, r := range fixture.Residencies {
		residency := domain.Residency{ID: r.ID, Name: r.Name, Phone: r.Phone, Email: r.Email}
		if err := repos.Residencies.Create(ctx, &residency); err != nil {
			return fmt.Errorf("seed residency %s: %w", r.ID, err)
		}
	}

	for _, u := range fixture.Users {
		user := domain.User{
			ID:                u.ID,
			Username:          u.Username,
			Phone:             u.Phone,
			Email:             u.Email,
			Role:              domain.Role(u.Role),
			ResidencyID:       u.ResidencyID,
			WorkingProfession: u.WorkingProfession,
		}
		limit := limits.MaxUsers
		if user.IsAdmin() {
			limit = limits.MaxAdmins
		}
		if err := repos.Users.Create(ctx, &user, limit); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	// inserting oldest first leaves the first record on top
	for i := len(fixture.Complaints) - 1; i >= 0; i-- {
		c := fixture.Complaints[i]
		complaint := domain.Complaint{
			ID:          c.ID,
			UserID:      c.UserID,
			ResidencyID: c.ResidencyID,
			ProblemName: c.ProblemName,
			WorkerType:  c.WorkerType,
			Description: c.Description,
			PhotoKey:    c.PhotoKey,
			Status:      domain.ComplaintStatus(c.Status),
			CreatedAt:   c.CreatedAt.UTC(),
			UserName:    c.UserName,
		}
		if err := repos.Complaints.Create(ctx, &complaint); err != nil {
			return fmt.Errorf("seed complaint %s: %w", c.ID, err)
		}
	}

	logger.Info("seed applied",
		zap.Int("residencies", len(fixture.Residencies)),
		zap.Int("users", len(fixture.Users)),
		zap.Int("complaints", len(fixture.Complaints)))
	return nil
}
