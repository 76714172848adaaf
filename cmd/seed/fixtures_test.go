package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParts(t *testing.T) {
	parts := generateParts(6)
	require.Len(t, parts, 6)

	assert.Equal(t, part{id: 1, partNumber: "BRK-1001", brandID: "BKDT", terminologyID: 1684, fileName: "BRK-1001.jpg"}, parts[0])
	assert.Equal(t, "ROT-1002", parts[1].partNumber)
	assert.Equal(t, "BRK-1005", parts[4].partNumber)

	seen := make(map[string]bool)
	for _, p := range parts {
		assert.False(t, seen[p.partNumber], "duplicate %s", p.partNumber)
		seen[p.partNumber] = true
	}
	assert.Equal(t, parts, generateParts(6))
}

func TestSeedBatch_QueuesEveryRow(t *testing.T) {
	parts := generateParts(3)
	b := seedBatch(parts)

	want := len(brands) + len(categories) + len(subcategories) + 2*len(terminologies) + 2*len(parts)
	assert.Equal(t, want, b.Len())
}
