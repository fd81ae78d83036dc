package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	list := []Appointment{
		{ID: "a1", Time: "09:00"},
		{ID: "a2", Time: "14:30"},
		{ID: "a3", Time: "20:00"},
		{ID: "a4", Time: "bogus"},
	}

	g := Group(list)
	require.Len(t, g.Morning, 1)
	require.Len(t, g.Afternoon, 1)
	require.Len(t, g.Evening, 2, "unparseable times land in the evening bucket")
	assert.Equal(t, "a1", g.Morning[0].ID)
	assert.Equal(t, "a2", g.Afternoon[0].ID)
	assert.Equal(t, 4, g.Total())
}

func TestGroupEmpty(t *testing.T) {
	g := Group(nil)
	assert.Equal(t, 0, g.Total())
}
