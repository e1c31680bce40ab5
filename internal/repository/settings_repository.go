package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"polibest/api/internal/models"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository stores the two singleton configuration documents:
// company settings and calculator price presets.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	const query = `
		SELECT id, currency, unit, company_name
		FROM app_settings WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, models.SettingsID)
	var settings models.Settings
	if err := row.Scan(
		&settings.ID,
		&settings.Currency,
		&settings.Unit,
		&settings.CompanyName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Settings{}, ErrSettingsNotFound
		}
		return models.Settings{}, err
	}
	return settings, nil
}

func (r *SettingsRepository) UpsertSettings(ctx context.Context, settings models.Settings) error {
	const query = `
		INSERT INTO app_settings (id, currency, unit, company_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			currency = EXCLUDED.currency,
			unit = EXCLUDED.unit,
			company_name = EXCLUDED.company_name
	`

	_, err := r.pool.Exec(ctx, query,
		settings.ID,
		settings.Currency,
		settings.Unit,
		settings.CompanyName,
	)
	return err
}

func (r *SettingsRepository) GetCalculatorPrices(ctx context.Context) (models.CalculatorPrices, error) {
	const query = `
		SELECT id, primer, paint, enamel, floki, lac_glossy, lac_matte
		FROM calculator_prices WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, models.CalculatorPricesID)
	var prices models.CalculatorPrices
	if err := row.Scan(
		&prices.ID,
		&prices.Primer,
		&prices.Paint,
		&prices.Enamel,
		&prices.Floki,
		&prices.LacGlossy,
		&prices.LacMatte,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CalculatorPrices{}, ErrSettingsNotFound
		}
		return models.CalculatorPrices{}, err
	}
	return prices, nil
}

func (r *SettingsRepository) UpsertCalculatorPrices(ctx context.Context, prices models.CalculatorPrices) error {
	const query = `
		INSERT INTO calculator_prices (id, primer, paint, enamel, floki, lac_glossy, lac_matte)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			primer = EXCLUDED.primer,
			paint = EXCLUDED.paint,
			enamel = EXCLUDED.enamel,
			floki = EXCLUDED.floki,
			lac_glossy = EXCLUDED.lac_glossy,
			lac_matte = EXCLUDED.lac_matte
	`

	_, err := r.pool.Exec(ctx, query,
		prices.ID,
		prices.Primer,
		prices.Paint,
		prices.Enamel,
		prices.Floki,
		prices.LacGlossy,
		prices.LacMatte,
	)
	return err
}
