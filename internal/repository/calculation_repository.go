package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrCalculationNotFound = errors.New("calculation not found")

type CalculationRepository struct {
	pool *pgxpool.Pool
}

func NewCalculationRepository(pool *pgxpool.Pool) *CalculationRepository {
	return &CalculationRepository{pool: pool}
}

const calculationColumns = `
	id, product_id, product_name, client_name, order_date, order_source,
	area_m2, layers, consumption_kg_m2, total_kg, price_per_kg, total_price,
	with_primer, lac_type, items, include_in_total, created_at
`

func (r *CalculationRepository) Create(ctx context.Context, calc models.Calculation) error {
	const query = `
		INSERT INTO calculations (
			id, product_id, product_name, client_name, order_date, order_source,
			area_m2, layers, consumption_kg_m2, total_kg, price_per_kg, total_price,
			with_primer, lac_type, items, include_in_total, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		calc.ID,
		calc.ProductID,
		calc.ProductName,
		calc.ClientName,
		calc.OrderDate,
		calc.OrderSource,
		calc.AreaM2,
		calc.Layers,
		calc.ConsumptionKgM2,
		calc.TotalKg,
		calc.PricePerKg,
		calc.TotalPrice,
		calc.WithPrimer,
		calc.LacType,
		calc.Items,
		calc.IncludeInTotal,
	)
	return err
}

func (r *CalculationRepository) GetByID(ctx context.Context, id string) (models.Calculation, error) {
	query := `SELECT ` + calculationColumns + ` FROM calculations WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	return scanCalculation(row)
}

func (r *CalculationRepository) List(ctx context.Context) ([]models.Calculation, error) {
	query := `SELECT ` + calculationColumns + ` FROM calculations`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCalculations(rows)
}

// CalculationPatch carries the optional commercial fields; nil means leave
// the column untouched.
type CalculationPatch struct {
	ClientName  *string
	OrderDate   *string
	OrderSource *string
}

func (r *CalculationRepository) Patch(ctx context.Context, id string, patch CalculationPatch) (models.Calculation, error) {
	const query = `
		UPDATE calculations
		SET client_name = COALESCE($2, client_name),
		    order_date = COALESCE($3, order_date),
		    order_source = COALESCE($4, order_source)
		WHERE id = $1
		RETURNING ` + calculationColumns

	row := r.pool.QueryRow(ctx, query, id, patch.ClientName, patch.OrderDate, patch.OrderSource)
	return scanCalculation(row)
}

// ToggleIncludeInTotal flips the flag and returns the new value.
func (r *CalculationRepository) ToggleIncludeInTotal(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE calculations
		SET include_in_total = NOT include_in_total
		WHERE id = $1
		RETURNING include_in_total
	`

	row := r.pool.QueryRow(ctx, query, id)
	var included bool
	if err := row.Scan(&included); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrCalculationNotFound
		}
		return false, err
	}
	return included, nil
}

func (r *CalculationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM calculations WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCalculationNotFound
	}
	return nil
}

// IncludedStats aggregates the calculations that participate in revenue
// totals (include_in_total set or absent).
func (r *CalculationRepository) IncludedStats(ctx context.Context) (count int, totalRevenue float64, err error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM calculations
		WHERE include_in_total
	`

	row := r.pool.QueryRow(ctx, query)
	if err := row.Scan(&count, &totalRevenue); err != nil {
		return 0, 0, err
	}
	return count, totalRevenue, nil
}

func (r *CalculationRepository) RecentIncluded(ctx context.Context, limit int) ([]models.Calculation, error) {
	query := `
		SELECT ` + calculationColumns + `
		FROM calculations
		WHERE include_in_total
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCalculations(rows)
}

func scanCalculation(row rowScanner) (models.Calculation, error) {
	var calc models.Calculation
	if err := row.Scan(
		&calc.ID,
		&calc.ProductID,
		&calc.ProductName,
		&calc.ClientName,
		&calc.OrderDate,
		&calc.OrderSource,
		&calc.AreaM2,
		&calc.Layers,
		&calc.ConsumptionKgM2,
		&calc.TotalKg,
		&calc.PricePerKg,
		&calc.TotalPrice,
		&calc.WithPrimer,
		&calc.LacType,
		&calc.Items,
		&calc.IncludeInTotal,
		&calc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Calculation{}, ErrCalculationNotFound
		}
		return models.Calculation{}, err
	}
	return calc, nil
}

func collectCalculations(rows pgx.Rows) ([]models.Calculation, error) {
	var calcs []models.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	return calcs, rows.Err()
}
