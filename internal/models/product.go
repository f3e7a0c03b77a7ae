package models

import (
	"time"
)

// Category is the fixed part taxonomy. Every record resolves to a bucket;
// CategoryOther is the fallback when no keyword matches.
type Category string

const (
	CategoryScreen     Category = "screen"
	CategoryBattery    Category = "battery"
	CategoryKeyboard   Category = "keyboard"
	CategoryTrackpad   Category = "trackpad"
	CategoryCharger    Category = "charger"
	CategoryFan        Category = "fan"
	CategorySpeaker    Category = "speaker"
	CategoryCamera     Category = "camera"
	CategoryHinge      Category = "hinge"
	CategoryCable      Category = "cable"
	CategoryLogicBoard Category = "logic_board"
	CategorySSD        Category = "ssd"
	CategoryRAM        Category = "ram"
	CategoryOther      Category = "other"
)

type QualityTier string

const (
	QualityOEM      QualityTier = "oem"
	QualityPremium  QualityTier = "premium"
	QualityStandard QualityTier = "standard"
)

// PageContext carries listing-page level hints down to card normalization.
type PageContext struct {
	DeviceLine string
	Brand      string
}

// RawCard is one product tile as scraped from a listing page, before any
// normalization. Discarded after it has been turned into a ProductRecord.
type RawCard struct {
	Name         string
	FullTitle    string
	PriceText    string
	SKUText      string
	StockText    string
	StockClasses []string
	BadgeText    string
	URL          string
	PageContext  PageContext
}

// ProductRecord is the normalized unit of work keyed by SKU.
type ProductRecord struct {
	SKU                string      `json:"sku"`
	Name               string      `json:"name"`
	Brand              string      `json:"brand"`
	DeviceLine         *string     `json:"device_line"`
	ModelCompatibility *string     `json:"model_compatibility"`
	Category           Category    `json:"category"`
	QualityTier        QualityTier `json:"quality_tier"`
	WholesalePrice     *float64    `json:"wholesale_price"`
	IsInStock          bool        `json:"is_in_stock"`
	WarrantyInfo       *string     `json:"warranty_info"`
	SourceURL          *string     `json:"source_url"`
}

type RunStatus string

const (
	RunStatusRunning             RunStatus = "running"
	RunStatusCompleted           RunStatus = "completed"
	RunStatusCompletedWithErrors RunStatus = "completed_with_errors"
	RunStatusFailed              RunStatus = "failed"
)

// RunError is one non-fatal failure collected during a run, recorded on the
// audit row.
type RunError struct {
	Context string `json:"context"`
	Message string `json:"message"`
}

// RunAudit is one persisted audit row per pipeline invocation.
type RunAudit struct {
	ID               string     `json:"id"`
	Status           RunStatus  `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ProductsFound    int        `json:"products_found"`
	ProductsUpserted int        `json:"products_upserted"`
	Errors           []RunError `json:"errors,omitempty"`
	DurationMS       int64      `json:"duration_ms"`
}
