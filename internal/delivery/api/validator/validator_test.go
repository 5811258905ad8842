package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	MenuItemID int64 `json:"menu_item_id" validate:"required"`
	Quantity   int   `json:"quantity" validate:"min=1,max=99"`
}

type cartRequest struct {
	Items []lineRequest `json:"items" validate:"required,min=1,dive"`
}

func TestValidator_Problems(t *testing.T) {
	v := New()

	err := v.Validate(&cartRequest{Items: []lineRequest{{MenuItemID: 0, Quantity: 100}}})
	require.Error(t, err)

	assert.ElementsMatch(t, []string{
		"items[0].menu_item_id is required",
		"items[0].quantity must be at most 99",
	}, Problems(err))
}

func TestValidator_Valid(t *testing.T) {
	assert.NoError(t, New().Validate(&cartRequest{Items: []lineRequest{{MenuItemID: 3, Quantity: 2}}}))
}
