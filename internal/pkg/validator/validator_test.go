package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	RoomID int64  `json:"room_id" validate:"required,gt=0"`
	Adults int    `json:"adults" validate:"required,gt=0"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func TestValidate_PassesCleanStruct(t *testing.T) {
	errs := Validate(&sampleRequest{RoomID: 1, Adults: 2})
	assert.Nil(t, errs)
}

func TestValidate_ReportsWireNamesAndMessages(t *testing.T) {
	errs := Validate(&sampleRequest{Adults: 2})
	require.NotNil(t, errs)

	// Fields are keyed by their json name, not the Go field name.
	assert.Equal(t, "is required", errs["room_id"])
	assert.NotContains(t, errs, "RoomID")
}

func TestValidate_HumanReadableTagMessages(t *testing.T) {
	errs := Validate(&sampleRequest{RoomID: -3, Adults: 1, Email: "not-an-email"})
	require.NotNil(t, errs)
	assert.Equal(t, "must be greater than 0", errs["room_id"])
	assert.Equal(t, "must be a valid email address", errs["email"])
}
