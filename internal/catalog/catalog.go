package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"neon-studio/internal/model"
)

// AllCategories selects every template when used as a category filter.
const AllCategories = "all"

// Catalog is an immutable snapshot of the premium options and design templates.
type Catalog struct {
	options    map[string]model.PremiumOption
	optionIDs  []string
	templates  []model.Template
	categories []string
	loadedAt   time.Time
}

// New validates the entries and builds a catalog. Option and template ids must be
// unique, option prices must not be negative and every template configuration must
// normalise.
func New(options []model.PremiumOption, templates []model.Template) (*Catalog, error) {
	c := &Catalog{
		options:   make(map[string]model.PremiumOption, len(options)),
		optionIDs: make([]string, 0, len(options)),
		templates: make([]model.Template, 0, len(templates)),
		loadedAt:  time.Now().UTC(),
	}

	for _, opt := range options {
		if opt.ID == "" {
			return nil, fmt.Errorf("premium option %q has no id", opt.Name)
		}
		if _, dup := c.options[opt.ID]; dup {
			return nil, fmt.Errorf("duplicate premium option %q", opt.ID)
		}
		if opt.Price.IsNegative() {
			return nil, fmt.Errorf("premium option %q has a negative price", opt.ID)
		}
		c.options[opt.ID] = opt
		c.optionIDs = append(c.optionIDs, opt.ID)
	}

	seen := make(map[string]struct{}, len(templates))
	for _, tpl := range templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("template %q has no id", tpl.Name)
		}
		if _, dup := seen[tpl.ID]; dup {
			return nil, fmt.Errorf("duplicate template %q", tpl.ID)
		}
		seen[tpl.ID] = struct{}{}

		tpl.Category = strings.ToLower(strings.TrimSpace(tpl.Category))
		tpl.Config = tpl.Config.Clone()
		if err := tpl.Config.Normalize(); err != nil {
			return nil, fmt.Errorf("template %q: %w", tpl.ID, err)
		}
		c.templates = append(c.templates, tpl)

		if tpl.Category != "" && !slices.Contains(c.categories, tpl.Category) {
			c.categories = append(c.categories, tpl.Category)
		}
	}
	slices.Sort(c.categories)

	return c, nil
}

// PremiumOption looks up an add-on by id.
func (c *Catalog) PremiumOption(id string) (model.PremiumOption, bool) {
	opt, ok := c.options[id]
	return opt, ok
}

// PremiumOptions returns the add-ons in file order.
func (c *Catalog) PremiumOptions() []model.PremiumOption {
	out := make([]model.PremiumOption, 0, len(c.optionIDs))
	for _, id := range c.optionIDs {
		out = append(out, c.options[id])
	}
	return out
}

// Templates returns the templates in the given category, matched case-insensitively.
// An empty category or "all" returns every template.
func (c *Catalog) Templates(category string) []model.Template {
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]model.Template, 0, len(c.templates))
	for _, tpl := range c.templates {
		if category == "" || category == AllCategories || tpl.Category == category {
			tpl.Config = tpl.Config.Clone()
			out = append(out, tpl)
		}
	}
	return out
}

// Categories returns the distinct template categories, sorted.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// LoadedAt is when the snapshot was built.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}
