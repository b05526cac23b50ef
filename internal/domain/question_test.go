package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	req := require.New(t)

	req.True(StatusPending.Valid())
	req.True(StatusEscalated.Valid())
	req.True(StatusAnswered.Valid())

	req.False(Status("Resolved").Valid())
	req.False(Status("pending").Valid())
	req.False(Status("").Valid())
}

func TestValidCategory(t *testing.T) {
	req := require.New(t)

	for _, c := range Categories {
		req.True(ValidCategory(c), "category %q", c)
	}
	req.False(ValidCategory("All"), "All is a filter value, not a category")
	req.False(ValidCategory("general"))
	req.False(ValidCategory(""))
}
