package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shape(t *testing.T) {
	s := Default()

	require.Equal(t, 40, s.Len())
	assert.Len(t, s.IDs(), s.Len())
	assert.Len(t, s.Questions(), s.Len())

	// Derived fields close out the canonical order.
	ids := s.IDs()
	assert.Equal(t, FieldSource, ids[len(ids)-3])
	assert.Equal(t, FieldPredictions, ids[len(ids)-2])
	assert.Equal(t, FieldCapturedAt, ids[len(ids)-1])
}

func TestDefault_NoDuplicateIDs(t *testing.T) {
	s := Default()
	seen := make(map[string]bool)
	for _, id := range s.IDs() {
		require.False(t, seen[id], "duplicate field id %q", id)
		seen[id] = true
	}
}

func TestByID(t *testing.T) {
	s := Default()

	f := s.ByID("diet")
	require.NotNil(t, f)
	assert.Equal(t, "diet", f.ID)
	assert.Contains(t, f.Question, "diet")

	assert.Nil(t, s.ByID("no_such_field"))
}

func TestIsNumeric(t *testing.T) {
	s := Default()

	assert.True(t, s.IsNumeric("age"))
	assert.True(t, s.IsNumeric("cost_of_study"))
	assert.False(t, s.IsNumeric("diet"))
	assert.False(t, s.IsNumeric(FieldSource))
}
