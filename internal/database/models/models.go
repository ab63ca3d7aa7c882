package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`
	// Color is an optional display tag for the billing grid.
	Color *string `gorm:"type:varchar(32)" json:"color"`
	// ImageURL holds either an emoji glyph or the URL of an uploaded photo.
	ImageURL *string `gorm:"type:varchar(256)" json:"image_url"`
	// Category is a plain label, not a foreign key: deleting a category
	// leaves items referencing it as "uncategorized".
	Category *string `gorm:"type:varchar(64)" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Bill is immutable once created: there are no update paths, only
// creation inside the finalization transaction and reads.
type Bill struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BillNumber int       `gorm:"uniqueIndex;not null" json:"bill_number"`
	DateTime   time.Time `gorm:"not null" json:"date_time"`
	// BusinessDate is the calendar-day bucket the bill is attributed to
	// for reporting. It diverges from DateTime's date when the configured
	// business-day cutover hour is non-zero.
	BusinessDate         string          `gorm:"type:varchar(10);index;not null" json:"business_date"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TotalParcelCollected decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_parcel_collected"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod        string          `gorm:"type:varchar(16);not null" json:"payment_method"`
	ApplyParcelToAll     bool            `gorm:"not null" json:"apply_parcel_to_all"`
	CreatedAt            time.Time       `json:"created_at"`

	Items []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BillItem snapshots the unit price and parcel charge at finalization
// time so historical bills are immune to later menu or config edits.
type BillItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BillID              uuid.UUID       `gorm:"type:uuid;index;not null" json:"bill_id"`
	MenuItemID          uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	PricePerUnit        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_per_unit"`
	LineSubtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_subtotal"`
	IsParcel            bool            `gorm:"not null" json:"is_parcel"`
	ParcelQuantity      int             `gorm:"not null" json:"parcel_quantity"`
	ParcelChargePerUnit decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"parcel_charge_per_unit"`
	ParcelTotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"parcel_total"`
	LineTotal           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt           time.Time       `json:"created_at"`
}

func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}
