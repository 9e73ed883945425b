package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackline/internal/events"
)

func TestPropertiesValidate(t *testing.T) {
	valid := events.Properties{
		"str":    "value",
		"num":    42.5,
		"int":    7,
		"bool":   true,
		"null":   nil,
		"nested": map[string]any{"a": []any{"x", 1, false}},
	}
	assert.NoError(t, valid.Validate())

	invalid := events.Properties{
		"fn": func() {},
	}
	assert.Error(t, invalid.Validate())

	nestedInvalid := events.Properties{
		"outer": map[string]any{"inner": []any{make(chan int)}},
	}
	assert.Error(t, nestedInvalid.Validate())
}

func TestPropertiesValueScanRoundTrip(t *testing.T) {
	original := events.Properties{
		"plan":  "pro",
		"depth": float64(3),
		"flags": map[string]any{"beta": true},
	}

	stored, err := original.Value()
	require.NoError(t, err)

	var decoded events.Properties
	require.NoError(t, decoded.Scan(stored))
	assert.Equal(t, original, decoded)
}

func TestPropertiesNilValue(t *testing.T) {
	var p events.Properties

	stored, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", stored)

	var decoded events.Properties
	require.NoError(t, decoded.Scan(nil))
	assert.Nil(t, decoded)
}
