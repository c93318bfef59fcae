package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore()
	require.NoError(t, err)
	return s
}

func TestStore_LoadsDataset(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	inv, acc := s.Counts()
	assert.Equal(t, 4, inv)
	assert.Equal(t, 3, acc)
	assert.Len(t, s.CoworkingSpaces(context.Background(), domain.EntityFilter{}), 2)
	assert.Len(t, s.Events(context.Background()), 2)
}

func TestStore_InvestorIndustryFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got := s.Investors(context.Background(), domain.InvestorFilter{Industry: domain.IndustryCleantech})
	require.Len(t, got, 1)
	assert.Equal(t, "GreenTec Capital", got[0].Name)
}

func TestStore_InvestorStageFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got := s.Investors(context.Background(), domain.InvestorFilter{Stage: domain.StageIdea})
	require.Len(t, got, 1)
	assert.Equal(t, "Nairobi Angel Network", got[0].Name)
}

func TestStore_InvestorTicketOverlap(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Asking for at least $6M keeps only the fund whose range reaches it.
	got := s.Investors(ctx, domain.InvestorFilter{TicketSizeMin: 6_000_000})
	require.Len(t, got, 1)
	assert.Equal(t, "TLcom Capital", got[0].Name)

	// A $100k ceiling excludes funds that start above it.
	got = s.Investors(ctx, domain.InvestorFilter{TicketSizeMax: 100_000})
	names := make([]string, 0, len(got))
	for _, inv := range got {
		names = append(names, inv.Name)
	}
	assert.ElementsMatch(t, []string{"GreenTec Capital", "Nairobi Angel Network"}, names)
}

func TestStore_InvestorLocationFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got := s.Investors(context.Background(), domain.InvestorFilter{Location: domain.LocationOther})
	assert.Len(t, got, 3) // the angel network is Nairobi-only
	for _, inv := range got {
		assert.NotEqual(t, "Nairobi Angel Network", inv.Name)
	}
}

func TestStore_AcceleratorFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	got := s.Accelerators(ctx, domain.EntityFilter{Industry: domain.IndustryLogistics})
	require.Len(t, got, 1)
	assert.Equal(t, "Antler Kenya", got[0].Name)

	got = s.Accelerators(ctx, domain.EntityFilter{Stage: domain.StagePreSeed})
	require.Len(t, got, 1)
	assert.Equal(t, "iHub", got[0].Name)

	assert.Empty(t, s.Accelerators(ctx, domain.EntityFilter{Location: domain.LocationMombasa}))
}

func TestStore_CoworkingIgnoresStage(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// Spaces carry no stage focus; a stage filter must not empty the result.
	got := s.CoworkingSpaces(context.Background(), domain.EntityFilter{Stage: domain.StageSeed})
	assert.Len(t, got, 2)
}

func TestStore_RefreshKeepsData(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Refresh(context.Background()))
	inv, acc := s.Counts()
	assert.Equal(t, 4, inv)
	assert.Equal(t, 3, acc)
}

func TestStore_DeadlineParsed(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var mest domain.EcosystemEntity
	for _, a := range s.Accelerators(context.Background(), domain.EntityFilter{}) {
		if a.Name == "MEST Africa" {
			mest = a
		}
	}
	require.NotNil(t, mest.ApplicationDeadline)
	assert.Equal(t, 2026, mest.ApplicationDeadline.Year())
	assert.Equal(t, 20.0, mest.EquityTaken)
}
