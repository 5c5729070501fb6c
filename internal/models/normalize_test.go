package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDocumentIDs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []int64
	}{
		{"nil", nil, []int64{}},
		{"not a slice", "1,2,3", []int64{}},
		{"map", map[string]any{"a": 1}, []int64{}},
		{"typed ints dedupe", []int64{3, 1, 3, 2, 1}, []int64{3, 1, 2}},
		{"json decoded mix", []any{float64(1), "2", nil, true, float64(1), "x", map[string]any{}}, []int64{1, 2}},
		{"non finite dropped", []float64{1, math.NaN(), math.Inf(1), 2}, []int64{1, 2}},
		{"fractional dropped", []any{1.5, 2.0}, []int64{2}},
		{"numeric strings", []string{" 7 ", "7", "", "8e0"}, []int64{7, 8}},
		{"json numbers", []any{json.Number("4"), json.Number("4.0"), json.Number("abc")}, []int64{4}},
		{"empty slice", []any{}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDocumentIDs(tt.in))
		})
	}
}

func TestNormalizeDocumentIDs_Idempotent(t *testing.T) {
	inputs := []any{
		[]any{float64(5), "5", float64(3), nil, "3", float64(9)},
		[]int64{1, 1, 1},
		"garbage",
	}
	for _, in := range inputs {
		once := NormalizeDocumentIDs(in)
		twice := NormalizeDocumentIDs(once)
		assert.Equal(t, once, twice)
	}
}

func TestScholarshipPatch_NormalizesDocumentIDs(t *testing.T) {
	s := Scholarship{Name: "A", RequiredDocumentIDs: []int64{1}}
	ids := []int64{2, 2, 3}
	name := "B"

	ScholarshipPatch{Name: &name, RequiredDocumentIDs: &ids}.Apply(&s)

	assert.Equal(t, "B", s.Name)
	assert.Equal(t, []int64{2, 3}, s.RequiredDocumentIDs)
	assert.True(t, s.HasDocument(3))
	assert.False(t, s.HasDocument(1))
}
