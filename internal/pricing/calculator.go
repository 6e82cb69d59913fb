package pricing

import (
	"fmt"
	"unicode/utf8"

	"neon-studio/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

const (
	// Currency is the only currency prices are quoted in.
	Currency = "USD"

	// FreeCharacters is how many characters the base price covers.
	FreeCharacters = 7

	// ExpressOptionID is the premium option that shortens shipping.
	ExpressOptionID = "express"
)

var (
	// PerCharacterRate is charged for every character past FreeCharacters.
	PerCharacterRate = decimal.NewFromInt(3)

	basePrices = map[model.Size]decimal.Decimal{
		model.SizeSmall: decimal.NewFromInt(120),
		model.SizeLarge: decimal.NewFromInt(200),
	}

	productionDays = map[model.Size]model.DayRange{
		model.SizeSmall: {Min: 5, Max: 7},
		model.SizeLarge: {Min: 7, Max: 10},
	}

	standardShipping = model.DayRange{Min: 5, Max: 7}
	expressShipping  = model.DayRange{Min: 1, Max: 3}
)

// OptionLookup resolves premium option ids against the catalog.
type OptionLookup interface {
	PremiumOption(id string) (model.PremiumOption, bool)
}

// Calculator prices sign configurations. It holds no mutable state.
type Calculator struct {
	options OptionLookup
}

// NewCalculator creates a calculator backed by the given premium option catalog.
func NewCalculator(options OptionLookup) *Calculator {
	return &Calculator{options: options}
}

// BasePrice returns the base price for a size.
func BasePrice(size model.Size) (decimal.Decimal, error) {
	price, ok := basePrices[size]
	if !ok {
		if _, err := model.ParseSize(string(size)); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, model.NewDomainError(model.ErrCodeInvalidSize, fmt.Sprintf("no base price for size %q", size))
	}
	return price, nil
}

// TextLength counts characters the way customers see them: runes after NFC
// normalisation, spaces included.
func TextLength(text string) int {
	return utf8.RuneCountInString(norm.NFC.String(text))
}

// TextSurcharge returns the per-character surcharge for text of the given length.
func TextSurcharge(length int) decimal.Decimal {
	if length <= FreeCharacters {
		return decimal.Zero
	}
	return PerCharacterRate.Mul(decimal.NewFromInt(int64(length - FreeCharacters)))
}

// Calculate returns the price breakdown for cfg with the selected premium options.
// Option ids are treated as a set and unknown ids contribute nothing.
func (c *Calculator) Calculate(cfg model.Configuration, premiumIDs []string) (*model.PriceBreakdown, error) {
	base, err := BasePrice(cfg.Size)
	if err != nil {
		return nil, err
	}

	length := TextLength(cfg.Text())
	surcharge := TextSurcharge(length)

	premium, ignored := c.resolveOptions(premiumIDs)
	premiumTotal := decimal.Zero
	express := false
	for _, line := range premium {
		premiumTotal = premiumTotal.Add(line.Price)
		if line.ID == ExpressOptionID {
			express = true
		}
	}

	breakdown := &model.PriceBreakdown{
		Size:           cfg.Size,
		BasePrice:      base,
		TextSurcharge:  surcharge,
		PremiumTotal:   premiumTotal,
		TotalPrice:     base.Add(surcharge).Add(premiumTotal),
		Currency:       Currency,
		CharacterCount: length,
		Premium:        premium,
		IgnoredOptions: ignored,
		Dimensions:     dimensions(cfg),
		Estimate:       estimate(cfg.Size, express),
	}
	breakdown.Summary = summary(breakdown)

	return breakdown, nil
}

func (c *Calculator) resolveOptions(ids []string) ([]model.PremiumLine, []string) {
	lines := make([]model.PremiumLine, 0, len(ids))
	var ignored []string
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		var (
			opt model.PremiumOption
			ok  bool
		)
		if c.options != nil {
			opt, ok = c.options.PremiumOption(id)
		}
		if !ok {
			ignored = append(ignored, id)
			continue
		}
		lines = append(lines, model.PremiumLine{ID: opt.ID, Name: opt.Name, Price: opt.Price})
	}

	return lines, ignored
}

// dimensions derives the finished size: height is half the width for one line plus a
// quarter of the width for every extra line.
func dimensions(cfg model.Configuration) model.Dimensions {
	width := cfg.Size.WidthCM()
	height := width / 2
	if extra := len(cfg.Lines) - 1; extra > 0 {
		height += extra * width / 4
	}
	return model.Dimensions{
		WidthCM:  width,
		HeightCM: height,
		Label:    fmt.Sprintf("%dcm x %dcm", width, height),
	}
}

func estimate(size model.Size, express bool) model.DeliveryEstimate {
	shipping := standardShipping
	if express {
		shipping = expressShipping
	}
	return model.DeliveryEstimate{
		ProductionDays: productionDays[size],
		ShippingDays:   shipping,
		Express:        express,
	}
}

func summary(b *model.PriceBreakdown) []string {
	lines := []string{
		fmt.Sprintf("Base price (%s): $%s", b.Size, b.BasePrice.StringFixed(2)),
	}
	if b.TextSurcharge.IsPositive() {
		lines = append(lines, fmt.Sprintf("Text surcharge (%d characters, %d over %d): $%s",
			b.CharacterCount, b.CharacterCount-FreeCharacters, FreeCharacters, b.TextSurcharge.StringFixed(2)))
	}
	for _, p := range b.Premium {
		lines = append(lines, fmt.Sprintf("%s: $%s", p.Name, p.Price.StringFixed(2)))
	}
	lines = append(lines,
		fmt.Sprintf("Size: %s", b.Dimensions.Label),
		fmt.Sprintf("Production: %d-%d business days", b.Estimate.ProductionDays.Min, b.Estimate.ProductionDays.Max),
		fmt.Sprintf("Shipping: %d-%d business days", b.Estimate.ShippingDays.Min, b.Estimate.ShippingDays.Max),
		fmt.Sprintf("Total: $%s", b.TotalPrice.StringFixed(2)),
	)
	return lines
}
