// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{
			name: "message only",
			err:  New(Validation, "start station not found"),
			want: "validation: start station not found",
		},
		{
			name: "wrapped cause",
			err:  Wrap(Schema, "create table \"station\"", stderrors.New("relation already exists")),
			want: "schema: create table \"station\": relation already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := stderrors.New("duplicate key")
	wrapped := fmt.Errorf("insert: %w", Violation("uq_station_name", "insert into \"station\"", cause))

	assert.Equal(t, ConstraintViolation, KindOf(wrapped))
	assert.True(t, Is(wrapped, ConstraintViolation))
	assert.False(t, Is(wrapped, SQL))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, Kind(""), KindOf(cause))
	assert.False(t, Is(nil, Validation))
}
