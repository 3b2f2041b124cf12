package entities

import "time"

// PriceObservation is one reported price for a commodity at a market on a date.
// Rows are append-only; nothing updates them after insert.
type PriceObservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Commodity       string    `gorm:"size:100;index;index:idx_obs_dedup,priority:1" json:"commodity" validate:"required,max=100"`
	MarketName      string    `gorm:"size:200;index:idx_obs_dedup,priority:2" json:"market_name" validate:"required,max=200"`
	State           string    `gorm:"size:100;index" json:"state" validate:"max=100"`
	District        string    `gorm:"size:100;index" json:"district" validate:"max=100"`
	PricePerQuintal float64   `json:"price_per_quintal" validate:"gte=0"`
	MinPrice        *float64  `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice        *float64  `json:"max_price" validate:"omitempty,gte=0"`
	ModalPrice      *float64  `json:"modal_price" validate:"omitempty,gte=0"`
	ArrivalDate     time.Time `gorm:"index;index:idx_obs_dedup,priority:3" json:"arrival_date" validate:"required"`

	Source  string `gorm:"size:20;index" json:"source,omitempty"` // seed|import|datagov|manual
	BatchID string `gorm:"size:36;index" json:"batch_id,omitempty"`

	CreatedAt time.Time `json:"-"`
}

// Sources recorded on PriceObservation.Source.
const (
	SourceSeed    = "seed"
	SourceImport  = "import"
	SourceDataGov = "datagov"
	SourceManual  = "manual"
)
