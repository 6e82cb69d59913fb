package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"neon-studio/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type optionsFile struct {
	Options []optionEntry `yaml:"options"`
}

type optionEntry struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Icon        string  `yaml:"icon"`
}

type templatesFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	Category     string      `yaml:"category"`
	Popular      bool        `yaml:"popular"`
	PreviewImage string      `yaml:"preview_image"`
	Config       configEntry `yaml:"config"`
}

type configEntry struct {
	Text      string         `yaml:"text"`
	Lines     []string       `yaml:"lines"`
	Color     string         `yaml:"color"`
	Gradient  *gradientEntry `yaml:"gradient"`
	Font      string         `yaml:"font"`
	Size      string         `yaml:"size"`
	Effect    string         `yaml:"effect"`
	Backboard string         `yaml:"backboard"`
	Mounting  string         `yaml:"mounting"`
	TextScale float64        `yaml:"text_scale"`
}

type gradientEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func (e configEntry) configuration() model.Configuration {
	cfg := model.Configuration{
		Color:     model.Color{Solid: e.Color},
		Font:      model.Font(e.Font),
		Size:      model.Size(e.Size),
		Effect:    model.Effect(e.Effect),
		Backboard: model.Backboard(e.Backboard),
		Mounting:  model.Mounting(e.Mounting),
		TextScale: e.TextScale,
	}
	if e.Gradient != nil {
		cfg.Color = model.Color{Gradient: &model.Gradient{From: e.Gradient.From, To: e.Gradient.To}}
	}
	if len(e.Lines) > 0 {
		cfg.SetLines(e.Lines)
	} else {
		cfg.SetText(e.Text)
	}
	return cfg
}

// ParseOptions decodes a premium options document.
func ParseOptions(data []byte) ([]model.PremiumOption, error) {
	var doc optionsFile
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse premium options: %w", err)
	}

	out := make([]model.PremiumOption, 0, len(doc.Options))
	for _, e := range doc.Options {
		out = append(out, model.PremiumOption{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Price:       decimal.NewFromFloat(e.Price),
			Icon:        e.Icon,
		})
	}
	return out, nil
}

// ParseTemplates decodes a templates document.
func ParseTemplates(data []byte) ([]model.Template, error) {
	var doc templatesFile
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	out := make([]model.Template, 0, len(doc.Templates))
	for _, e := range doc.Templates {
		out = append(out, model.Template{
			ID:           e.ID,
			Name:         e.Name,
			Category:     e.Category,
			Config:       e.Config.configuration(),
			Popular:      e.Popular,
			PreviewImage: e.PreviewImage,
		})
	}
	return out, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
