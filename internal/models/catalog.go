package models

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PricePerKg      float64 `json:"price_per_kg"`
	ConsumptionKgM2 float64 `json:"consumption_kg_m2"`
	Description     string  `json:"description"`
}

type Calculation struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ClientName      string          `json:"client_name"`
	OrderDate       string          `json:"order_date"`
	OrderSource     string          `json:"order_source"`
	AreaM2          float64         `json:"area_m2"`
	Layers          int             `json:"layers"`
	ConsumptionKgM2 float64         `json:"consumption_kg_m2"`
	TotalKg         float64         `json:"total_kg"`
	PricePerKg      float64         `json:"price_per_kg"`
	TotalPrice      float64         `json:"total_price"`
	WithPrimer      bool            `json:"with_primer"`
	LacType         *string         `json:"lac_type,omitempty"`
	Items           json.RawMessage `json:"items,omitempty"`
	IncludeInTotal  bool            `json:"include_in_total"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	DocType       string    `json:"doc_type"`
	CalculationID *string   `json:"calculation_id,omitempty"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

type Instruction struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Content     string    `json:"content"`
	FileName    *string   `json:"file_name,omitempty"`
	ObjectKey   *string   `json:"-"`
	ContentType string    `json:"-"`
	FileType    string    `json:"file_type"`
	CreatedAt   time.Time `json:"created_at"`
}

type Settings struct {
	ID          string `json:"id"`
	Currency    string `json:"currency"`
	Unit        string `json:"unit"`
	CompanyName string `json:"company_name"`
}

const SettingsID = "main_settings"

func DefaultSettings() Settings {
	return Settings{
		ID:          SettingsID,
		Currency:    "RUB",
		Unit:        "m2",
		CompanyName: "PoliBest 911",
	}
}

type CalculatorPrices struct {
	ID        string  `json:"id"`
	Primer    float64 `json:"primer"`
	Paint     float64 `json:"paint"`
	Enamel    float64 `json:"enamel"`
	Floki     float64 `json:"floki"`
	LacGlossy float64 `json:"lacGlossy"`
	LacMatte  float64 `json:"lacMatte"`
}

const CalculatorPricesID = "calculator_prices"

func DefaultCalculatorPrices() CalculatorPrices {
	return CalculatorPrices{
		ID:        CalculatorPricesID,
		Primer:    720,
		Paint:     990,
		Enamel:    1260,
		Floki:     1350,
		LacGlossy: 1440,
		LacMatte:  1800,
	}
}
