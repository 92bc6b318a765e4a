package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// ShippingZone is an eligibility rule over country/state/zip, ranked by
// SortOrder. An empty CountryCodes list (or "*") matches every country.
type ShippingZone struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	CountryCodes types.StringList `gorm:"column:country_codes;type:jsonb"`
	StateCodes   types.StringList `gorm:"column:state_codes;type:jsonb"`
	ZipPrefixes  types.StringList `gorm:"column:zip_prefixes;type:jsonb"`
	SortOrder    int              `gorm:"column:sort_order;not null;default:0"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	Methods      []ShippingMethod `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ShippingMethod is a priced option belonging to exactly one zone.
type ShippingMethod struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZoneID          uuid.UUID       `gorm:"column:zone_id;type:uuid;not null"`
	Name            string          `gorm:"column:name;not null"`
	RateType        enums.RateType  `gorm:"column:rate_type;type:text;not null"`
	RateValue       decimal.Decimal `gorm:"column:rate_value;type:numeric(12,2);not null"`
	MinOrderForFree decimal.Decimal `gorm:"column:min_order_for_free;type:numeric(12,2);not null;default:0"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
