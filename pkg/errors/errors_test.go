package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		isConflict bool
		isFK       bool
	}{
		{"unique violation", "23505", true, false},
		{"serialization failure", "40001", true, false},
		{"foreign key violation", "23503", false, true},
		{"other", "42P01", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapDBError("boom", tt.code)
			assert.Equal(t, tt.isConflict, IsConflict(err))
			var fk *ForeignKeyViolationError
			assert.Equal(t, tt.isFK, errors.As(err, &fk))
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "ignored"))

	wrapped := fmt.Errorf("exec: %w", &pq.Error{Code: "23505"})
	assert.True(t, IsConflict(FromDB(wrapped, "duplicate serial")))

	plain := FromDB(errors.New("connection reset"), "insert asset")
	assert.False(t, IsConflict(plain))
	assert.EqualError(t, plain, "insert asset: connection reset")
}

func TestTaxonomyMatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create assignment: %w", NewConflictError("assignment", 7, "pair already has an active assignment"))
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "existing assignment id: 7")

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, 7, conflict.ExistingID)

	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NewNotFoundError("employee", 3))))
	assert.True(t, IsValidation(NewValidationError("name", "must not be empty")))
	assert.EqualError(t, NewValidationError("name", "must not be empty"), "name: must not be empty")
}
