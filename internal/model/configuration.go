package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size is the physical width class of a sign.
type Size string

const (
	SizeSmall Size = "50cm"
	SizeLarge Size = "100cm"
)

// Sizes lists every recognised size.
var Sizes = []Size{SizeSmall, SizeLarge}

// ParseSize returns the Size for s or an INVALID_SIZE error.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeLarge:
		return Size(s), nil
	case "":
		return "", ErrMissingSize
	}
	return "", NewDomainError(ErrCodeInvalidSize, fmt.Sprintf("unrecognized size %q", s))
}

// WidthCM returns the sign width in centimetres.
func (s Size) WidthCM() int {
	switch s {
	case SizeSmall:
		return 50
	case SizeLarge:
		return 100
	}
	return 0
}

// Effect is the lighting animation.
type Effect string

const (
	EffectStatic   Effect = "static"
	EffectPulse    Effect = "pulse"
	EffectBlink    Effect = "blink"
	EffectGradient Effect = "gradient"
)

// ParseEffect returns the Effect for s. An empty value means static.
func ParseEffect(s string) (Effect, error) {
	switch Effect(s) {
	case "":
		return EffectStatic, nil
	case EffectStatic, EffectPulse, EffectBlink, EffectGradient:
		return Effect(s), nil
	}
	return "", NewDomainError(ErrCodeInvalidEffect, fmt.Sprintf("unrecognized effect %q", s))
}

// Backboard is the backing plate behind the tubes.
type Backboard string

const (
	BackboardRectangle   Backboard = "rectangle"
	BackboardCutToShape  Backboard = "cut-to-shape"
	BackboardCutToLetter Backboard = "cut-to-letter"
	BackboardStand       Backboard = "acrylic-stand"
	BackboardNone        Backboard = "none"
)

// ParseBackboard returns the Backboard for s. An empty value means rectangle.
func ParseBackboard(s string) (Backboard, error) {
	switch Backboard(s) {
	case "":
		return BackboardRectangle, nil
	case BackboardRectangle, BackboardCutToShape, BackboardCutToLetter, BackboardStand, BackboardNone:
		return Backboard(s), nil
	}
	return "", NewDomainError(ErrCodeInvalidBackboard, fmt.Sprintf("unrecognized backboard %q", s))
}

// Mounting is how the sign is hung.
type Mounting string

const (
	MountingWall    Mounting = "wall"
	MountingHanging Mounting = "hanging"
	MountingStand   Mounting = "stand"
)

// ParseMounting returns the Mounting for s. An empty value means wall.
func ParseMounting(s string) (Mounting, error) {
	switch Mounting(s) {
	case "":
		return MountingWall, nil
	case MountingWall, MountingHanging, MountingStand:
		return Mounting(s), nil
	}
	return "", NewDomainError(ErrCodeInvalidMounting, fmt.Sprintf("unrecognized mounting %q", s))
}

// Font identifies one of the tube lettering styles.
type Font string

const (
	FontBarcelona Font = "barcelona"
	FontAmsterdam Font = "amsterdam"
	FontMonaco    Font = "monaco"
	FontNeonTubes Font = "neon-tubes"
	FontBellview  Font = "bellview"
	FontMarquee   Font = "marquee"
)

// ParseFont returns the Font for s. An empty value means barcelona.
func ParseFont(s string) (Font, error) {
	switch Font(s) {
	case "":
		return FontBarcelona, nil
	case FontBarcelona, FontAmsterdam, FontMonaco, FontNeonTubes, FontBellview, FontMarquee:
		return Font(s), nil
	}
	return "", NewDomainError(ErrCodeInvalidFont, fmt.Sprintf("unrecognized font %q", s))
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Gradient is a two-stop colour gradient.
type Gradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Color is either a solid hex colour or a gradient. On the wire a solid colour is a
// JSON string and a gradient is an object.
type Color struct {
	Solid    string
	Gradient *Gradient
}

// IsGradient reports whether the colour is a two-stop gradient.
func (c Color) IsGradient() bool {
	return c.Gradient != nil
}

// IsZero reports whether no colour was chosen.
func (c Color) IsZero() bool {
	return c.Solid == "" && c.Gradient == nil
}

// Validate checks every hex component.
func (c Color) Validate() error {
	if c.Gradient != nil {
		if !hexColor.MatchString(c.Gradient.From) || !hexColor.MatchString(c.Gradient.To) {
			return NewDomainError(ErrCodeInvalidColor, "gradient stops must be hex colours")
		}
		return nil
	}
	if !hexColor.MatchString(c.Solid) {
		return NewDomainError(ErrCodeInvalidColor, fmt.Sprintf("invalid colour %q", c.Solid))
	}
	return nil
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c.Gradient != nil {
		return json.Marshal(c.Gradient)
	}
	return json.Marshal(c.Solid)
}

func (c *Color) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Color{}
		return nil
	case len(data) > 0 && data[0] == '{':
		var g Gradient
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		*c = Color{Gradient: &g}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Color{Solid: s}
	return nil
}

// DefaultColor is the warm white used when no colour is chosen.
const DefaultColor = "#fff4e0"

const (
	MaxLines         = 4
	MaxLineLength    = 40
	MaxTextScale     = 3.0
	DefaultTextScale = 1.0
)

// Configuration describes one neon sign design. Lines is the single source of truth
// for the text; Text derives the flattened form.
type Configuration struct {
	Lines     []string
	Color     Color
	Font      Font
	Size      Size
	Effect    Effect
	Backboard Backboard
	Mounting  Mounting
	TextScale float64
}

// Multiline reports whether the design has more than one line of text.
func (c Configuration) Multiline() bool {
	return len(c.Lines) > 1
}

// Text returns the lines joined by a single space.
func (c Configuration) Text() string {
	return strings.Join(c.Lines, " ")
}

// SetText replaces the design text with a single line.
func (c *Configuration) SetText(text string) {
	c.Lines = []string{text}
}

// SetLines replaces the design text with multiple lines.
func (c *Configuration) SetLines(lines []string) {
	c.Lines = append([]string(nil), lines...)
}

// Clone returns a deep copy.
func (c Configuration) Clone() Configuration {
	out := c
	out.Lines = append([]string(nil), c.Lines...)
	if c.Color.Gradient != nil {
		g := *c.Color.Gradient
		out.Color.Gradient = &g
	}
	return out
}

// Normalize trims the text, applies defaults for optional attributes and rejects
// any unrecognised enum value.
func (c *Configuration) Normalize() error {
	lines := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return ErrMissingText
	}
	if len(lines) > MaxLines {
		return NewDomainError(ErrCodeInvalidText, fmt.Sprintf("at most %d lines are allowed", MaxLines))
	}
	for _, l := range lines {
		if utf8.RuneCountInString(l) > MaxLineLength {
			return NewDomainError(ErrCodeInvalidText, fmt.Sprintf("lines are limited to %d characters", MaxLineLength))
		}
	}
	c.Lines = lines

	size, err := ParseSize(string(c.Size))
	if err != nil {
		return err
	}
	c.Size = size

	if c.Effect, err = ParseEffect(string(c.Effect)); err != nil {
		return err
	}
	if c.Backboard, err = ParseBackboard(string(c.Backboard)); err != nil {
		return err
	}
	if c.Mounting, err = ParseMounting(string(c.Mounting)); err != nil {
		return err
	}
	if c.Font, err = ParseFont(string(c.Font)); err != nil {
		return err
	}

	if c.Color.IsZero() {
		c.Color = Color{Solid: DefaultColor}
	}
	if err := c.Color.Validate(); err != nil {
		return err
	}

	switch {
	case c.TextScale == 0:
		c.TextScale = DefaultTextScale
	case c.TextScale < 0 || c.TextScale > MaxTextScale:
		return NewDomainError(ErrCodeInvalidScale, fmt.Sprintf("text scale must be between 0 and %.0f", MaxTextScale))
	}

	return nil
}

type configurationJSON struct {
	Text      string    `json:"text"`
	Lines     []string  `json:"lines,omitempty"`
	Multiline bool      `json:"multiline"`
	Color     Color     `json:"color"`
	Font      Font      `json:"font"`
	Size      Size      `json:"size"`
	Effect    Effect    `json:"effect"`
	Backboard Backboard `json:"backboard"`
	Mounting  Mounting  `json:"mounting"`
	TextScale float64   `json:"textScale"`
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(configurationJSON{
		Text:      c.Text(),
		Lines:     c.Lines,
		Multiline: c.Multiline(),
		Color:     c.Color,
		Font:      c.Font,
		Size:      c.Size,
		Effect:    c.Effect,
		Backboard: c.Backboard,
		Mounting:  c.Mounting,
		TextScale: c.TextScale,
	})
}

// UnmarshalJSON accepts the storefront's dual text form: when multiline is set the
// lines array wins, otherwise text does.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var w configurationJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var lines []string
	switch {
	case w.Multiline && len(w.Lines) > 0:
		lines = w.Lines
	case w.Multiline:
		lines = strings.Split(w.Text, "\n")
	case w.Text != "":
		lines = []string{w.Text}
	case len(w.Lines) > 0:
		lines = []string{strings.Join(w.Lines, " ")}
	}

	*c = Configuration{
		Lines:     lines,
		Color:     w.Color,
		Font:      w.Font,
		Size:      w.Size,
		Effect:    w.Effect,
		Backboard: w.Backboard,
		Mounting:  w.Mounting,
		TextScale: w.TextScale,
	}
	return nil
}
