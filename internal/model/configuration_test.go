package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_UnmarshalJSON_TextForms(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantLines []string
		wantText  string
	}{
		{
			name:      "Single line uses text",
			body:      `{"text":"HELLO","lines":["IGNORED"],"multiline":false,"size":"50cm"}`,
			wantLines: []string{"HELLO"},
			wantText:  "HELLO",
		},
		{
			name:      "Multiline uses lines",
			body:      `{"text":"IGNORED","lines":["WELCOME","HOME"],"multiline":true,"size":"100cm"}`,
			wantLines: []string{"WELCOME", "HOME"},
			wantText:  "WELCOME HOME",
		},
		{
			name:      "Multiline without lines splits text",
			body:      `{"text":"GOOD\nVIBES","multiline":true,"size":"50cm"}`,
			wantLines: []string{"GOOD", "VIBES"},
			wantText:  "GOOD VIBES",
		},
		{
			name:      "Single line with only lines joins them",
			body:      `{"lines":["LET'S","DANCE"],"size":"50cm"}`,
			wantLines: []string{"LET'S DANCE"},
			wantText:  "LET'S DANCE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Configuration
			require.NoError(t, json.Unmarshal([]byte(tt.body), &cfg))
			assert.Equal(t, tt.wantLines, cfg.Lines)
			assert.Equal(t, tt.wantText, cfg.Text())
		})
	}
}

func TestConfiguration_MarshalJSON_DerivesText(t *testing.T) {
	cfg := Configuration{Size: SizeLarge}
	cfg.SetLines([]string{"OPEN", "LATE"})

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "OPEN LATE", wire["text"])
	assert.Equal(t, true, wire["multiline"])
	assert.Equal(t, []any{"OPEN", "LATE"}, wire["lines"])
}

func TestColor_JSON(t *testing.T) {
	var solid Color
	require.NoError(t, json.Unmarshal([]byte(`"#ff00aa"`), &solid))
	assert.False(t, solid.IsGradient())
	assert.Equal(t, "#ff00aa", solid.Solid)

	var gradient Color
	require.NoError(t, json.Unmarshal([]byte(`{"from":"#ff0000","to":"#0000ff"}`), &gradient))
	require.True(t, gradient.IsGradient())
	assert.Equal(t, "#0000ff", gradient.Gradient.To)

	data, err := json.Marshal(gradient)
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"#ff0000","to":"#0000ff"}`, string(data))
}

func TestConfiguration_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Configuration
		wantCode string
	}{
		{
			name: "Defaults applied",
			cfg:  Configuration{Lines: []string{"  HELLO "}, Size: SizeSmall},
		},
		{
			name:     "Missing text",
			cfg:      Configuration{Lines: []string{"   "}, Size: SizeSmall},
			wantCode: ErrCodeMissingField,
		},
		{
			name:     "Missing size",
			cfg:      Configuration{Lines: []string{"HELLO"}},
			wantCode: ErrCodeMissingField,
		},
		{
			name:     "Unknown size",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: "75cm"},
			wantCode: ErrCodeInvalidSize,
		},
		{
			name:     "Unknown font",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Font: "comic-sans"},
			wantCode: ErrCodeInvalidFont,
		},
		{
			name:     "Unknown effect",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Effect: "strobe"},
			wantCode: ErrCodeInvalidEffect,
		},
		{
			name:     "Unknown backboard",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Backboard: "marble"},
			wantCode: ErrCodeInvalidBackboard,
		},
		{
			name:     "Unknown mounting",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Mounting: "ceiling"},
			wantCode: ErrCodeInvalidMounting,
		},
		{
			name:     "Bad colour",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Color: Color{Solid: "pink"}},
			wantCode: ErrCodeInvalidColor,
		},
		{
			name:     "Bad gradient stop",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, Color: Color{Gradient: &Gradient{From: "#fff", To: "blue"}}},
			wantCode: ErrCodeInvalidColor,
		},
		{
			name:     "Text scale out of range",
			cfg:      Configuration{Lines: []string{"HELLO"}, Size: SizeSmall, TextScale: 4},
			wantCode: ErrCodeInvalidScale,
		},
		{
			name:     "Too many lines",
			cfg:      Configuration{Lines: []string{"A", "B", "C", "D", "E"}, Size: SizeSmall},
			wantCode: ErrCodeInvalidText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Normalize()
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			de, ok := AsDomainError(err)
			require.True(t, ok, "expected domain error, got %v", err)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestConfiguration_Normalize_Defaults(t *testing.T) {
	cfg := Configuration{Lines: []string{"  HELLO  ", ""}, Size: SizeSmall}
	require.NoError(t, cfg.Normalize())

	assert.Equal(t, []string{"HELLO"}, cfg.Lines)
	assert.False(t, cfg.Multiline())
	assert.Equal(t, FontBarcelona, cfg.Font)
	assert.Equal(t, EffectStatic, cfg.Effect)
	assert.Equal(t, BackboardRectangle, cfg.Backboard)
	assert.Equal(t, MountingWall, cfg.Mounting)
	assert.Equal(t, DefaultColor, cfg.Color.Solid)
	assert.Equal(t, DefaultTextScale, cfg.TextScale)
}

func TestConfiguration_Clone(t *testing.T) {
	orig := Configuration{Lines: []string{"A", "B"}, Color: Color{Gradient: &Gradient{From: "#000", To: "#fff"}}}
	clone := orig.Clone()

	clone.Lines[0] = "Z"
	clone.Color.Gradient.To = "#123"

	assert.Equal(t, "A", orig.Lines[0])
	assert.Equal(t, "#fff", orig.Color.Gradient.To)
}

func TestParseSize(t *testing.T) {
	for _, s := range Sizes {
		got, err := ParseSize(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.Positive(t, got.WidthCM())
	}

	_, err := ParseSize("200cm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized size")
}

func TestConfiguration_LinesSurviveJSON(t *testing.T) {
	cfg := Configuration{Lines: []string{"GOOD", "VIBES"}, Size: SizeSmall}
	require.NoError(t, cfg.Normalize())
	assert.True(t, cfg.Multiline())

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"multiline":true`)

	var back Configuration
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"GOOD", "VIBES"}, back.Lines)
	assert.Equal(t, cfg, back)
}
