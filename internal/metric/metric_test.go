package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForWarnAbove(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"below threshold", 400.0, ColorGreen},
		{"at threshold", 512.0, ColorGreen},
		{"above threshold", 600.0, ColorRed},
		{"integer above", int64(600), ColorRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Metric{Key: "mem", Value: tt.value, WarnAbove: Threshold(512)}
			assert.Equal(t, tt.want, ColorFor(m))
		})
	}
}

func TestColorForWarnBelow(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"above threshold", 99.5, ColorGreen},
		{"at threshold", 90.0, ColorGreen},
		{"below threshold", 42.0, ColorRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Metric{Key: "hit_rate", Value: tt.value, WarnBelow: Threshold(90)}
			assert.Equal(t, tt.want, ColorFor(m))
		})
	}
}

func TestColorForExplicitColorWins(t *testing.T) {
	m := Metric{Key: "x", Value: 1000.0, Color: "blue", WarnAbove: Threshold(1)}
	assert.Equal(t, "blue", ColorFor(m))
}

func TestColorForNonNumericValue(t *testing.T) {
	// Text metrics never trip thresholds.
	m := Metric{Key: "role", Value: "master", WarnAbove: Threshold(0)}
	assert.Equal(t, ColorGreen, ColorFor(m))
}

func TestColorForNoThresholds(t *testing.T) {
	m := Metric{Key: "uptime", Value: 12345.0}
	assert.Equal(t, ColorGreen, ColorFor(m))
}

func TestNumeric(t *testing.T) {
	v, ok := Numeric(42.5)
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	v, ok = Numeric(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = Numeric("seven")
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{int64(0), "0"},
		{int64(999), "999"},
		{int64(1000), "1,000"},
		{int64(1234567), "1,234,567"},
		{int64(-4500), "-4,500"},
		{1234.5, "1,234.5"},
		{98.75, "98.8"},
		{1000.0, "1,000"},
		{"master", "master"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.value))
	}
}
