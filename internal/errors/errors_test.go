package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, NotFound("gone").HTTPStatus())
	assert.Equal(t, 400, Validation("bad").HTTPStatus())
	assert.Equal(t, 400, InvalidOperation("cycle").HTTPStatus())
	assert.Equal(t, 409, Conflict("dup").HTTPStatus())
	assert.Equal(t, 500, Internal("boom").HTTPStatus())
}

func TestIs_MatchesByCode(t *testing.T) {
	err := NotFound("Folder not found")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", Conflict("Tag with this name already exists"))

	assert.ErrorIs(t, err, ErrConflict)
}

func TestError_MessageOnly(t *testing.T) {
	assert.EqualError(t, Validation("Name is required"), "Name is required")
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal("store failure").WithCause(cause)

	assert.EqualError(t, err, "store failure: disk full")
	assert.ErrorIs(t, err, cause)
}

func TestWithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"name": "is required"})

	assert.Equal(t, 400, err.HTTPStatus())
	assert.Equal(t, map[string]string{"name": "is required"}, err.Details)
}
