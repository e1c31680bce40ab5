package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrInstructionNotFound = errors.New("instruction not found")

type InstructionRepository struct {
	pool *pgxpool.Pool
}

func NewInstructionRepository(pool *pgxpool.Pool) *InstructionRepository {
	return &InstructionRepository{pool: pool}
}

func (r *InstructionRepository) Create(ctx context.Context, instruction models.Instruction) error {
	const query = `
		INSERT INTO instructions (
			id, title, category, content, file_name, object_key, content_type, file_type, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		instruction.ID,
		instruction.Title,
		instruction.Category,
		instruction.Content,
		instruction.FileName,
		instruction.ObjectKey,
		instruction.ContentType,
		instruction.FileType,
	)
	return err
}

func (r *InstructionRepository) GetByID(ctx context.Context, id string) (models.Instruction, error) {
	const query = `
		SELECT id, title, category, content, file_name, object_key, content_type, file_type, created_at
		FROM instructions WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	return scanInstruction(row)
}

func (r *InstructionRepository) List(ctx context.Context) ([]models.Instruction, error) {
	const query = `
		SELECT id, title, category, content, file_name, object_key, content_type, file_type, created_at
		FROM instructions
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructions []models.Instruction
	for rows.Next() {
		instruction, err := scanInstruction(rows)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, instruction)
	}
	return instructions, rows.Err()
}

func (r *InstructionRepository) Update(ctx context.Context, instruction models.Instruction) (models.Instruction, error) {
	const query = `
		UPDATE instructions
		SET title = $2, category = $3, content = $4, file_name = $5,
		    object_key = $6, content_type = $7, file_type = $8
		WHERE id = $1
		RETURNING id, title, category, content, file_name, object_key, content_type, file_type, created_at
	`

	row := r.pool.QueryRow(ctx, query,
		instruction.ID,
		instruction.Title,
		instruction.Category,
		instruction.Content,
		instruction.FileName,
		instruction.ObjectKey,
		instruction.ContentType,
		instruction.FileType,
	)
	return scanInstruction(row)
}

func (r *InstructionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM instructions WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInstructionNotFound
	}
	return nil
}

func scanInstruction(row rowScanner) (models.Instruction, error) {
	var instruction models.Instruction
	if err := row.Scan(
		&instruction.ID,
		&instruction.Title,
		&instruction.Category,
		&instruction.Content,
		&instruction.FileName,
		&instruction.ObjectKey,
		&instruction.ContentType,
		&instruction.FileType,
		&instruction.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Instruction{}, ErrInstructionNotFound
		}
		return models.Instruction{}, err
	}
	return instruction, nil
}
