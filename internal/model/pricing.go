package model

import "github.com/shopspring/decimal"

// PriceRequest is the payload for a price calculation.
type PriceRequest struct {
	Config         *Configuration `json:"config"`
	PremiumOptions []string       `json:"premiumOptions"`
}

// PremiumLine is one applied add-on in a breakdown.
type PremiumLine struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Dimensions is the approximate finished size of a sign.
type Dimensions struct {
	WidthCM  int    `json:"widthCm"`
	HeightCM int    `json:"heightCm"`
	Label    string `json:"label"`
}

// DayRange is an inclusive range of business days.
type DayRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeliveryEstimate covers production and shipping time.
type DeliveryEstimate struct {
	ProductionDays DayRange `json:"productionDays"`
	ShippingDays   DayRange `json:"shippingDays"`
	Express        bool     `json:"express"`
}

// PriceBreakdown is the itemised result of pricing one configuration.
// TotalPrice always equals BasePrice + TextSurcharge + PremiumTotal.
type PriceBreakdown struct {
	Size           Size             `json:"size"`
	BasePrice      decimal.Decimal  `json:"basePrice"`
	TextSurcharge  decimal.Decimal  `json:"textSurcharge"`
	PremiumTotal   decimal.Decimal  `json:"premiumTotal"`
	TotalPrice     decimal.Decimal  `json:"totalPrice"`
	Currency       string           `json:"currency"`
	CharacterCount int              `json:"characterCount"`
	Premium        []PremiumLine    `json:"premiumOptions"`
	IgnoredOptions []string         `json:"ignoredOptions,omitempty"`
	Dimensions     Dimensions       `json:"dimensions"`
	Estimate       DeliveryEstimate `json:"estimate"`
	Summary        []string         `json:"breakdown"`
}

// PriceResponse wraps a breakdown for the calculate-price endpoint.
type PriceResponse struct {
	Success bool            `json:"success"`
	Pricing *PriceBreakdown `json:"pricing"`
}
