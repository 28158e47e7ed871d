package models

import "time"

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"not null"                       json:"name"`
	Description string `gorm:"not null;default:''"            json:"description"`
	Price       int64  `gorm:"not null"                       json:"price"`
	Weight      int64  `gorm:"not null"                       json:"weight"`
	InStock     bool   `gorm:"not null"                       json:"in_stock"`
	Image       string `gorm:"not null;default:''"            json:"image"`
}

// Order amounts are integers in the smallest currency unit. TotalPriceTax
// holds the tax amount alone.
type Order struct {
	ID            uint  `gorm:"primaryKey"`
	TotalPrice    int64 `gorm:"not null"`
	TotalPriceTax int64 `gorm:"not null;default:0"`
	ShippingPrice int64 `gorm:"not null"`

	Email      string
	Country    string
	Address    string
	PostalCode string
	City       string
	Province   string

	Paid               bool `gorm:"not null;default:false"`
	CreditCardName     string
	CreditCardFirst    string
	CreditCardLast     string
	CreditCardExpMonth int
	CreditCardExpYear  int
	TransactionID      string
	TransactionSuccess bool
	TransactionAmount  int64

	Lines []OrderLine `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderLine struct {
	ID        uint  `gorm:"primaryKey"`
	OrderID   uint  `gorm:"index;not null"`
	ProductID int64 `gorm:"index;not null"`
	Quantity  int64 `gorm:"not null;check:quantity>0"`
}

type Stage string

const (
	StageCreated   Stage = "created"
	StageAddressed Stage = "addressed"
	StagePaid      Stage = "paid"
)

// Stage is derived from which fields are filled in, there is no stored state.
func (o *Order) Stage() Stage {
	switch {
	case o.Paid:
		return StagePaid
	case o.Country != "":
		return StageAddressed
	default:
		return StageCreated
	}
}

func (o *Order) HasShippingInformation() bool {
	return o.Email != "" && o.Country != ""
}

// Line returns the single order line. ok is false when lines were not loaded.
func (o *Order) Line() (OrderLine, bool) {
	if len(o.Lines) == 0 {
		return OrderLine{}, false
	}
	return o.Lines[0], true
}
