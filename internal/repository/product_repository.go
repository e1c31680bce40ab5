package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, product models.Product) error {
	const query = `
		INSERT INTO products (id, name, price_per_kg, consumption_kg_m2, description)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.PricePerKg,
		product.ConsumptionKgM2,
		product.Description,
	)
	return err
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, name, price_per_kg, consumption_kg_m2, description
		FROM products
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.PricePerKg,
			&product.ConsumptionKgM2,
			&product.Description,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, product models.Product) (models.Product, error) {
	const query = `
		UPDATE products
		SET name = $2, price_per_kg = $3, consumption_kg_m2 = $4, description = $5
		WHERE id = $1
		RETURNING id, name, price_per_kg, consumption_kg_m2, description
	`

	row := r.pool.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.PricePerKg,
		product.ConsumptionKgM2,
		product.Description,
	)

	var updated models.Product
	if err := row.Scan(
		&updated.ID,
		&updated.Name,
		&updated.PricePerKg,
		&updated.ConsumptionKgM2,
		&updated.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM products WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM products`
	row := r.pool.QueryRow(ctx, query)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
