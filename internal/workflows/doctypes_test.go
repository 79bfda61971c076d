package workflows_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stepwise/internal/workflows"
)

func TestSplitDocTypes(t *testing.T) {
	assert.Equal(t, workflows.DocTypes{"W2", "Paystub"}, workflows.SplitDocTypes(" W2 , ,Paystub,"))
	assert.Empty(t, workflows.SplitDocTypes(""))
}

func TestDocTypesScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want workflows.DocTypes
	}{
		{"null", nil, nil},
		{"text array", "{W2,Paystub}", workflows.DocTypes{"W2", "Paystub"}},
		{"quoted text array", []byte(`{"Bank Statement",W2}`), workflows.DocTypes{"Bank Statement", "W2"}},
		{"empty text array", "{}", nil},
		{"null elements dropped", `{"a,b",c,NULL}`, workflows.DocTypes{"a,b", "c"}},
		{"only null elements", "{NULL,NULL}", nil},
		{"empty elements dropped", `{"",W2}`, workflows.DocTypes{"W2"}},
		{"legacy comma string", "W2, Paystub", workflows.DocTypes{"W2", "Paystub"}},
		{"legacy empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d workflows.DocTypes
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d)
		})
	}

	t.Run("unsupported source", func(t *testing.T) {
		var d workflows.DocTypes
		assert.Error(t, d.Scan(12))
	})
}

func TestDocTypesUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want workflows.DocTypes
	}{
		{"list", `["W2","Paystub"]`, workflows.DocTypes{"W2", "Paystub"}},
		{"comma string", `"W2,Paystub"`, workflows.DocTypes{"W2", "Paystub"}},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d workflows.DocTypes
			require.NoError(t, json.Unmarshal([]byte(tt.json), &d))
			assert.Equal(t, tt.want, d)
		})
	}

	t.Run("number is rejected", func(t *testing.T) {
		var d workflows.DocTypes
		assert.Error(t, json.Unmarshal([]byte(`5`), &d))
	})
}

func TestDocTypesValue(t *testing.T) {
	v, err := workflows.DocTypes(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = workflows.DocTypes{"W2"}.Value()
	require.NoError(t, err)
	assert.Equal(t, []string{"W2"}, v)
}

func TestDocTypesWithPrimary(t *testing.T) {
	assert.Equal(t, []string{"1003", "W2"}, workflows.DocTypes{"W2"}.WithPrimary("1003"))
	assert.Equal(t, []string{"1003"}, workflows.DocTypes(nil).WithPrimary("1003"))
}
