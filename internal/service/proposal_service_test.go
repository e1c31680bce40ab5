package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

type fakeProposalStore struct {
	byID    map[string]models.Proposal
	updates []models.StatusChange
	groups  []repository.StatusGroup
}

func newFakeProposalStore() *fakeProposalStore {
	return &fakeProposalStore{byID: map[string]models.Proposal{}}
}

func (f *fakeProposalStore) GetByID(ctx context.Context, id string) (models.Proposal, error) {
	proposal, ok := f.byID[id]
	if !ok {
		return models.Proposal{}, repository.ErrProposalNotFound
	}
	return proposal, nil
}

func (f *fakeProposalStore) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, entry models.StatusChange) error {
	proposal, ok := f.byID[id]
	if !ok {
		return repository.ErrProposalNotFound
	}
	proposal.Status = status
	proposal.StatusHistory = append(proposal.StatusHistory, entry)
	f.byID[id] = proposal
	f.updates = append(f.updates, entry)
	return nil
}

func (f *fakeProposalStore) GroupByStatus(ctx context.Context) ([]repository.StatusGroup, error) {
	return f.groups, nil
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.byID["kp1"] = models.Proposal{ID: "kp1", Status: models.ProposalStatusDraft}
	svc := NewProposalService(store, zerolog.Nop())

	_, err := svc.SetStatus(context.Background(), "kp1", models.ProposalStatus("archived"))
	require.ErrorIs(t, err, ErrInvalidStatus)

	// the rejected transition must not touch the history
	assert.Empty(t, store.updates)
	assert.Empty(t, store.byID["kp1"].StatusHistory)
}

func TestSetStatus_UnknownProposal(t *testing.T) {
	t.Parallel()

	svc := NewProposalService(newFakeProposalStore(), zerolog.Nop())

	_, err := svc.SetStatus(context.Background(), "missing", models.ProposalStatusSent)
	require.ErrorIs(t, err, repository.ErrProposalNotFound)
}

func TestSetStatus_AppendsOneHistoryEntry(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.byID["kp1"] = models.Proposal{ID: "kp1", Status: models.ProposalStatusDraft}
	svc := NewProposalService(store, zerolog.Nop())

	before := time.Now().UTC()
	result, err := svc.SetStatus(context.Background(), "kp1", models.ProposalStatusSent)
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusSent, result.Status)
	assert.Equal(t, "Відправлено", result.Label)

	require.Len(t, store.updates, 1)
	entry := store.updates[0]
	assert.Equal(t, models.ProposalStatusDraft, entry.FromStatus)
	assert.Equal(t, models.ProposalStatusSent, entry.ToStatus)
	assert.WithinDuration(t, before, entry.ChangedAt, 5*time.Second)
}

func TestSetStatus_EmptyStatusReadsAsDraft(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.byID["legacy"] = models.Proposal{ID: "legacy", Status: ""}
	svc := NewProposalService(store, zerolog.Nop())

	_, err := svc.SetStatus(context.Background(), "legacy", models.ProposalStatusPaid)
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	assert.Equal(t, models.ProposalStatusDraft, store.updates[0].FromStatus)
}

func TestFunnel_Conversions(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.groups = []repository.StatusGroup{
		{Status: models.ProposalStatusDraft, Count: 2, TotalSum: 200},
		{Status: models.ProposalStatusSent, Count: 1, TotalSum: 100},
	}
	svc := NewProposalService(store, zerolog.Nop())

	report, err := svc.Funnel(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Funnel, 3)
	assert.Equal(t, 100.0, report.Funnel[0].Conversion)
	assert.Equal(t, 50.0, report.Funnel[1].Conversion)
	assert.Equal(t, 0.0, report.Funnel[2].Conversion)

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 300.0, report.TotalSum)
	assert.Equal(t, "Чернетка", report.Funnel[0].Label)
}

func TestFunnel_ZeroStepCarriesDenominatorForward(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.groups = []repository.StatusGroup{
		{Status: models.ProposalStatusDraft, Count: 4, TotalSum: 400},
		{Status: models.ProposalStatusPaid, Count: 2, TotalSum: 220},
	}
	svc := NewProposalService(store, zerolog.Nop())

	report, err := svc.Funnel(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Funnel, 3)
	sent := report.Funnel[1]
	paid := report.Funnel[2]
	assert.Equal(t, 0, sent.Count)
	assert.Equal(t, 0.0, sent.Conversion)
	// paid measures against draft because sent was empty
	assert.Equal(t, 50.0, paid.Conversion)
}

func TestFunnel_EmptyStore(t *testing.T) {
	t.Parallel()

	svc := NewProposalService(newFakeProposalStore(), zerolog.Nop())

	report, err := svc.Funnel(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Funnel, 3)
	for _, step := range report.Funnel {
		assert.Equal(t, 0, step.Count)
		assert.Equal(t, 100.0, step.Conversion)
	}
	assert.Equal(t, 0, report.TotalCount)
	assert.Equal(t, StatusBucket{}, report.Cancelled)
}

func TestFunnel_CancelledIsSeparate(t *testing.T) {
	t.Parallel()

	store := newFakeProposalStore()
	store.groups = []repository.StatusGroup{
		{Status: models.ProposalStatusDraft, Count: 1, TotalSum: 50},
		{Status: models.ProposalStatusCancelled, Count: 3, TotalSum: 900},
		{Status: models.ProposalStatus("mystery"), Count: 7, TotalSum: 1},
	}
	svc := NewProposalService(store, zerolog.Nop())

	report, err := svc.Funnel(context.Background())
	require.NoError(t, err)

	for _, step := range report.Funnel {
		assert.NotEqual(t, models.ProposalStatusCancelled, step.Status)
	}
	assert.Equal(t, StatusBucket{Count: 3, TotalSum: 900}, report.Cancelled)

	// unknown statuses are ignored, cancelled still counts in the totals
	assert.Equal(t, 4, report.TotalCount)
	assert.Equal(t, 950.0, report.TotalSum)
}
