package token

import (
	"encoding/hex"
	"testing"

	"github.com/castellan/site-auth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator()

	t.Run("produces hex of the requested entropy", func(t *testing.T) {
		token, err := g.Generate(domain.AuthCodeByteLength)
		require.NoError(t, err)
		assert.Len(t, token, domain.AuthCodeByteLength*2)

		decoded, err := hex.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, decoded, domain.AuthCodeByteLength)
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			token, err := g.Generate(domain.TokenByteLength)
			require.NoError(t, err)
			assert.False(t, seen[token])
			seen[token] = true
		}
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		_, err := g.Generate(0)
		assert.Error(t, err)

		_, err = g.Generate(-8)
		assert.Error(t, err)
	})
}
