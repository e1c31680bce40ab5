package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"polibest/api/internal/models"
	"polibest/api/internal/repository"
)

// ErrInvalidStatus rejects a transition to a status outside the four
// recognized values. The transition graph itself is deliberately
// unrestricted: the history is an audit log, not a state machine.
var ErrInvalidStatus = errors.New("invalid status")

type ProposalStore interface {
	GetByID(ctx context.Context, id string) (models.Proposal, error)
	UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, entry models.StatusChange) error
	GroupByStatus(ctx context.Context) ([]repository.StatusGroup, error)
}

// ProposalService tracks the proposal lifecycle and derives the funnel
// report.
type ProposalService struct {
	proposals ProposalStore
	log       zerolog.Logger
}

func NewProposalService(proposals ProposalStore, log zerolog.Logger) *ProposalService {
	return &ProposalService{
		proposals: proposals,
		log:       log,
	}
}

type StatusResult struct {
	ID     string
	Status models.ProposalStatus
	Label  string
}

// SetStatus applies a transition and appends one audit entry. The previous
// status is read just before the update; concurrent transitions on the same
// proposal may interleave (accepted, no version check).
func (s *ProposalService) SetStatus(ctx context.Context, id string, status models.ProposalStatus) (StatusResult, error) {
	if !status.Valid() {
		return StatusResult{}, ErrInvalidStatus
	}

	existing, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return StatusResult{}, err
	}

	oldStatus := existing.Status
	if oldStatus == "" {
		oldStatus = models.ProposalStatusDraft
	}

	entry := models.StatusChange{
		FromStatus: oldStatus,
		ToStatus:   status,
		ChangedAt:  time.Now().UTC(),
	}
	if err := s.proposals.UpdateStatus(ctx, id, status, entry); err != nil {
		return StatusResult{}, err
	}

	s.log.Info().
		Str("proposal_id", id).
		Str("from", string(oldStatus)).
		Str("to", string(status)).
		Msg("proposal status changed")

	return StatusResult{
		ID:     id,
		Status: status,
		Label:  status.Label(),
	}, nil
}

type FunnelStep struct {
	Status     models.ProposalStatus `json:"status"`
	Label      string                `json:"label"`
	Count      int                   `json:"count"`
	TotalSum   float64               `json:"total_sum"`
	Conversion float64               `json:"conversion"`
}

type StatusBucket struct {
	Count    int     `json:"count"`
	TotalSum float64 `json:"total_sum"`
}

type FunnelReport struct {
	Funnel       []FunnelStep                     `json:"funnel"`
	Cancelled    StatusBucket                     `json:"cancelled"`
	TotalCount   int                              `json:"total_count"`
	TotalSum     float64                          `json:"total_sum"`
	StatusLabels map[models.ProposalStatus]string `json:"status_labels"`
}

// Funnel aggregates proposals by status and computes step-over-step
// conversion over draft → sent → paid. The denominator carries forward the
// last step with a nonzero count, so an empty intermediate stage neither
// divides by zero nor reports a misleading 0%.
func (s *ProposalService) Funnel(ctx context.Context) (FunnelReport, error) {
	groups, err := s.proposals.GroupByStatus(ctx)
	if err != nil {
		return FunnelReport{}, err
	}

	stats := make(map[models.ProposalStatus]StatusBucket, len(models.ProposalStatuses))
	for _, status := range models.ProposalStatuses {
		stats[status] = StatusBucket{}
	}

	report := FunnelReport{
		Funnel:       make([]FunnelStep, 0, len(models.ProposalStatuses)-1),
		StatusLabels: models.ProposalStatusLabels,
	}

	for _, group := range groups {
		if _, known := stats[group.Status]; !known {
			continue
		}
		stats[group.Status] = StatusBucket{Count: group.Count, TotalSum: group.TotalSum}
		report.TotalCount += group.Count
		report.TotalSum += group.TotalSum
	}

	var prevCount *int
	for _, status := range models.ProposalStatuses {
		if status == models.ProposalStatusCancelled {
			continue
		}
		bucket := stats[status]

		conversion := 100.0
		if prevCount != nil {
			if *prevCount > 0 {
				conversion = float64(bucket.Count) / float64(*prevCount) * 100
			} else {
				conversion = 0
			}
		}

		report.Funnel = append(report.Funnel, FunnelStep{
			Status:     status,
			Label:      status.Label(),
			Count:      bucket.Count,
			TotalSum:   bucket.TotalSum,
			Conversion: math.Round(conversion*10) / 10,
		})

		if bucket.Count > 0 {
			count := bucket.Count
			prevCount = &count
		}
	}

	report.Cancelled = stats[models.ProposalStatusCancelled]
	return report, nil
}
