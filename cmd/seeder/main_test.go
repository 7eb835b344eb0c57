package main

import (
	"testing"

	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry(t *testing.T) {
	name, level, err := parseEntry(" Jane Doe :Advanced")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	require.NotNil(t, level)
	assert.Equal(t, rotation.SkillAdvanced, *level)

	name, level, err = parseEntry("John")
	require.NoError(t, err)
	assert.Equal(t, "John", name)
	assert.Nil(t, level)

	_, _, err = parseEntry("John:godlike")
	assert.ErrorIs(t, err, rotation.ErrInvalidSkillLevel)
}
