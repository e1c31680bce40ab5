package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrProposalNotFound = errors.New("proposal not found")

type ProposalRepository struct {
	pool *pgxpool.Pool
}

func NewProposalRepository(pool *pgxpool.Pool) *ProposalRepository {
	return &ProposalRepository{pool: pool}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal models.Proposal) error {
	const query = `
		INSERT INTO proposals (
			id, title, client, location, date, settings, rooms, additional_data,
			grand_total, status, status_history, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '[]', NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		proposal.ID,
		proposal.Title,
		proposal.Client,
		proposal.Location,
		proposal.Date,
		proposal.Settings,
		proposal.Rooms,
		proposal.AdditionalData,
		proposal.GrandTotal,
		proposal.Status,
	)
	return err
}

func (r *ProposalRepository) GetByID(ctx context.Context, id string) (models.Proposal, error) {
	const query = `
		SELECT id, title, client, location, date, settings, rooms, additional_data,
		       grand_total, status, status_history, created_at
		FROM proposals WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	return scanProposal(row)
}

func (r *ProposalRepository) List(ctx context.Context) ([]models.Proposal, error) {
	const query = `
		SELECT id, title, client, location, date, settings, rooms, additional_data,
		       grand_total, status, status_history, created_at
		FROM proposals
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}

// Update replaces the editable fields only; status and status_history are
// touched exclusively by UpdateStatus.
func (r *ProposalRepository) Update(ctx context.Context, proposal models.Proposal) error {
	const query = `
		UPDATE proposals
		SET title = $2, client = $3, location = $4, date = $5,
		    settings = $6, rooms = $7, additional_data = $8, grand_total = $9
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query,
		proposal.ID,
		proposal.Title,
		proposal.Client,
		proposal.Location,
		proposal.Date,
		proposal.Settings,
		proposal.Rooms,
		proposal.AdditionalData,
		proposal.GrandTotal,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM proposals WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// UpdateStatus sets the status and appends the audit entry in a single
// statement, relying on per-row atomicity.
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id string, status models.ProposalStatus, entry models.StatusChange) error {
	const query = `
		UPDATE proposals
		SET status = $2, status_history = status_history || $3::jsonb
		WHERE id = $1
	`

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query, id, status, payload)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// StatusGroup is one bucket of the group-by-status aggregation. Rows with
// no status count as draft.
type StatusGroup struct {
	Status   models.ProposalStatus
	Count    int
	TotalSum float64
}

func (r *ProposalRepository) GroupByStatus(ctx context.Context) ([]StatusGroup, error) {
	const query = `
		SELECT COALESCE(NULLIF(status, ''), 'draft') AS status,
		       COUNT(*) AS count,
		       COALESCE(SUM(grand_total), 0) AS total_sum
		FROM proposals
		GROUP BY 1
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []StatusGroup
	for rows.Next() {
		var group StatusGroup
		if err := rows.Scan(&group.Status, &group.Count, &group.TotalSum); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (models.Proposal, error) {
	var (
		proposal models.Proposal
		history  []byte
	)
	if err := row.Scan(
		&proposal.ID,
		&proposal.Title,
		&proposal.Client,
		&proposal.Location,
		&proposal.Date,
		&proposal.Settings,
		&proposal.Rooms,
		&proposal.AdditionalData,
		&proposal.GrandTotal,
		&proposal.Status,
		&history,
		&proposal.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Proposal{}, ErrProposalNotFound
		}
		return models.Proposal{}, err
	}

	proposal.StatusHistory = []models.StatusChange{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &proposal.StatusHistory); err != nil {
			return models.Proposal{}, fmt.Errorf("decode status history: %w", err)
		}
	}
	proposal.DocType = "kp"
	return proposal, nil
}
