package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xyVar/KLDAFinTech/pkg/errors"
)

func TestNewRegistry(t *testing.T) {
	testCases := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{
			name:    "valid universe",
			entries: []string{"TSLA.US=TSLA:equity", "NatGas=NATGAS:commodity", "VIX=VIX:index"},
		},
		{
			name:    "missing separator",
			entries: []string{"TSLA.US-TSLA:equity"},
			wantErr: true,
		},
		{
			name:    "missing asset class",
			entries: []string{"TSLA.US=TSLA"},
			wantErr: true,
		},
		{
			name:    "unknown asset class",
			entries: []string{"TSLA.US=TSLA:crypto"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			registry, err := NewRegistry(tc.entries)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, registry.Symbols(), len(tc.entries))
		})
	}
}

func TestRegistry_Normalize(t *testing.T) {
	registry, err := NewRegistry([]string{
		"TSLA.US=TSLA:equity",
		"SpotCrude=SPOTCRUDE:commodity",
	})
	assert.NoError(t, err)

	sym, err := registry.Normalize("TSLA.US")
	assert.NoError(t, err)
	assert.Equal(t, "TSLA", sym.Key)
	assert.Equal(t, ClassEquity, sym.Class)

	sym, err = registry.Normalize("SpotCrude")
	assert.NoError(t, err)
	assert.Equal(t, "SPOTCRUDE", sym.Key)
	assert.Equal(t, ClassCommodity, sym.Class)

	_, err = registry.Normalize("DOGE.X")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ValidationError))
	assert.Contains(t, err.Error(), "unknown symbol: DOGE.X")
}

func TestRegistry_Lookup(t *testing.T) {
	registry, err := NewRegistry([]string{"NAS100=NAS100:index"})
	assert.NoError(t, err)

	sym, ok := registry.Lookup("NAS100")
	assert.True(t, ok)
	assert.Equal(t, ClassIndex, sym.Class)

	_, ok = registry.Lookup("TSLA")
	assert.False(t, ok)
}
