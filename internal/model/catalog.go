package model

import "github.com/shopspring/decimal"

// PremiumOption is a flat-fee add-on from the static catalog.
type PremiumOption struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Icon        string          `json:"icon"`
}

// Template is a ready-made design customers can start from.
type Template struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	Config       Configuration `json:"config"`
	Popular      bool          `json:"popular"`
	PreviewImage string        `json:"previewImage,omitempty"`
}

// TemplateListResponse is returned by the template listing endpoint.
type TemplateListResponse struct {
	Success    bool       `json:"success"`
	Templates  []Template `json:"templates"`
	Total      int        `json:"total"`
	Categories []string   `json:"categories"`
}
