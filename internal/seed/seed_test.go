package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/repository"
)

var limits = config.ResidencyConfig{MaxUsers: 15, MaxAdmins: 15}

func TestLoad_EmbeddedSample(t *testing.T) {
	fixture, err := Load("")
	require.NoError(t, err)
	assert.Len(t, fixture.Residencies, 3)
	assert.Len(t, fixture.Users, 14)
	assert.Len(t, fixture.Complaints, 3)
}

func TestApply_KeepsFixtureOrder(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	fixture, err := Load("")
	require.NoError(t, err)

	require.NoError(t, Apply(ctx, repos, fixture, limits, zap.NewNop()))

	complaints, err := repos.Complaints.List(ctx, repository.ComplaintFilter{})
	require.NoError(t, err)
	require.Len(t, complaints, 3)
	assert.Equal(t, "1", complaints[0].ID)
	assert.Equal(t, "3", complaints[2].ID)
	assert.Equal(t, domain.ComplaintStatusInProgress, complaints[1].Status)

	members, err := repos.Users.ListByResidency(ctx, "1")
	require.NoError(t, err)
	require.Len(t, members, 9)
	assert.Equal(t, "John Smith", members[0].Username)
}

func TestApply_SkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	fixture, err := Load("")
	require.NoError(t, err)

	require.NoError(t, Apply(ctx, repos, fixture, limits, zap.NewNop()))
	require.NoError(t, Apply(ctx, repos, fixture, limits, zap.NewNop()))

	residencies, err := repos.Residencies.List(ctx)
	require.NoError(t, err)
	assert.Len(t, residencies, 3)
}

func TestParse_RejectsAdminWithoutProfession(t *testing.T) {
	_, err := Parse([]byte(`users: [{id: "1", username: a, phone: "1", role: admin, residencyId: "1"}]`))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte(`complaints: [{id: "1", status: Done}]`))
	assert.Error(t, err)
}
