package exercises

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	rows, err := Catalog()
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
	for _, r := range rows {
		assert.NotEmpty(t, r.Category, r.Name)
		assert.NotEmpty(t, r.Equipment, r.Name)
	}
}
