package inspector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Frame    time.Duration `inspect:"label,name:Frame avg"`
	Load     float64       `inspect:"bar,max:100,fmt:%.0f%%"`
	Levels   [3]float32    `inspect:",labels:a|b|c"`
	Active   bool
	Hidden   int `inspect:"skip"`
	Phase    string
	internal int
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		widget Widget
		opts   map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label, fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"bogus,max", WidgetAuto, map[string]string{}},
	}
	for _, tt := range tests {
		w, opts := ParseTag(tt.tag)
		if w != tt.widget {
			t.Errorf("ParseTag(%q) widget = %v, want %v", tt.tag, w, tt.widget)
		}
		assert.Equal(t, tt.opts, opts, "ParseTag(%q) options", tt.tag)
	}
}

func TestExtractFields(t *testing.T) {
	s := sample{Frame: 1500 * time.Microsecond, Load: 42, Levels: [3]float32{0.1, 0.2, 0.3}, Active: true, Hidden: 7, internal: 1}
	fields := ExtractFields(&s)
	require.Len(t, fields, 5)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Label()
	}
	assert.Equal(t, []string{"Frame avg", "Load", "Levels", "Active", "Phase"}, names)

	assert.Equal(t, WidgetLabel, fields[0].Widget)
	assert.Equal(t, WidgetBar, fields[1].Widget)
	assert.Equal(t, WidgetBar, fields[2].Widget, "float arrays default to bars")
	assert.Equal(t, WidgetBool, fields[3].Widget)
	assert.Equal(t, WidgetLabel, fields[4].Widget)

	assert.Equal(t, fields, ExtractFields(s), "value and pointer agree")
	assert.Nil(t, ExtractFields(42))
	assert.Nil(t, ExtractFields((*sample)(nil)))
}

func TestRowHeight(t *testing.T) {
	fields := ExtractFields(sample{})
	assert.Equal(t, int32(labelHeight), RowHeight(fields[0]))
	assert.Equal(t, int32(barHeight), RowHeight(fields[1]))
	assert.Equal(t, int32(barGroupHeight), RowHeight(fields[2]))
	assert.Equal(t, int32(barHeight), RowHeight(fields[3]))

	// A bar over a non-numeric value falls back to a label.
	assert.Equal(t, int32(labelHeight), RowHeight(Field{Widget: WidgetBar, Value: "x"}))
}

func TestPanelHeight(t *testing.T) {
	empty := PanelHeight(nil)
	assert.Equal(t, int32(HeaderHeight+2*PanelPadding), empty)

	one := PanelHeight([]Section{{Title: "Frame", Value: sample{}}})
	want := empty + SectionHeight + labelHeight + barHeight + barGroupHeight + barHeight + labelHeight + 4
	assert.Equal(t, want, one)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		fmt   string
		want  string
	}{
		{float32(1.234), "", "1.23"},
		{2.5, "", "2.50"},
		{1234567 * time.Nanosecond, "", "1.235ms"},
		{"", "", "-"},
		{"Growth", "", "Growth"},
		{7, "", "7"},
		{42.0, "%.0f%%", "42%"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.fmt); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.fmt, got, tt.want)
		}
	}
}

func TestGetMaxAndFloats(t *testing.T) {
	assert.Equal(t, float32(1), GetMax(nil))
	assert.Equal(t, float32(100), GetMax(map[string]string{"max": "100"}))
	assert.Equal(t, float32(1), GetMax(map[string]string{"max": "-3"}))

	v, ok := GetFloatValue(uint8(9))
	assert.True(t, ok)
	assert.Equal(t, float32(9), v)
	_, ok = GetFloatValue("9")
	assert.False(t, ok)

	s, ok := GetFloatSlice([]float64{1, 2})
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 2}, s)
	_, ok = GetFloatSlice([]string{"a"})
	assert.False(t, ok)
}

func TestInspectorToggleAndResize(t *testing.T) {
	ins := NewInspector("DEBUG", 1280, 720)
	assert.False(t, ins.Visible())
	assert.True(t, ins.Toggle())
	assert.True(t, ins.Visible())
	assert.Equal(t, float32(1280-PanelWidth-10), ins.Bounds(nil).X)

	ins.Resize(200, 100)
	assert.Equal(t, float32(0), ins.Bounds(nil).X, "panel never leaves the screen")
}
