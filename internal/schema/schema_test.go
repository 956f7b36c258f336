// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zones() Descriptor {
	return Descriptor{
		BaseName: "zone",
		Columns: []Column{
			{Name: "id", Tokens: []string{"SERIAL", "PRIMARY KEY"}},
			{Name: "name", Tokens: []string{"TEXT", "NOT NULL", "UNIQUE"}},
			{Name: "zone", Tokens: []string{"INTEGER", "CHECK (zone >= 0)"}},
		},
		PrimaryKey: []string{"id"},
	}
}

func TestDescriptor_ColumnOrder(t *testing.T) {
	d := zones()

	assert.Equal(t, []string{"id", "name", "zone"}, d.ColumnNames())
	assert.Equal(t, []string{"name", "zone"}, d.ColumnNamesWithoutPK())
	assert.Equal(t, "id", d.PK())
	assert.Equal(t, "INTEGER CHECK (zone >= 0)", d.Columns[2].Definition())
}

func TestDescriptor_ColumnNamesWithoutPK_KeyNotFirst(t *testing.T) {
	d := Descriptor{
		BaseName: "link",
		Columns: []Column{
			{Name: "a", Tokens: []string{"INTEGER"}},
			{Name: "link_id", Tokens: []string{"BIGINT"}},
			{Name: "b", Tokens: []string{"INTEGER"}},
		},
		PrimaryKey: []string{"link_id", "a"},
	}

	assert.Equal(t, []string{"a", "b"}, d.ColumnNamesWithoutPK())
	// The source slice is not modified.
	assert.Equal(t, []string{"a", "link_id", "b"}, d.ColumnNames())
}

func TestDescriptor_TableName(t *testing.T) {
	d := zones()
	assert.Equal(t, "zone", d.TableName(""))
	assert.Equal(t, "test_zone", d.TableName("test_"))
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Descriptor)
		wantErr string
	}{
		{name: "valid", mutate: func(d *Descriptor) {}},
		{name: "empty base name", mutate: func(d *Descriptor) { d.BaseName = " " }, wantErr: "empty base name"},
		{name: "no columns", mutate: func(d *Descriptor) { d.Columns = nil }, wantErr: "no columns"},
		{name: "empty primary key", mutate: func(d *Descriptor) { d.PrimaryKey = nil }, wantErr: "empty primary key"},
		{
			name:    "undeclared primary key",
			mutate:  func(d *Descriptor) { d.PrimaryKey = []string{"zone_id"} },
			wantErr: "primary key column zone_id is not declared",
		},
		{
			name: "duplicate column",
			mutate: func(d *Descriptor) {
				d.Columns = append(d.Columns, Column{Name: "name", Tokens: []string{"TEXT"}})
			},
			wantErr: "duplicate column name",
		},
		{
			name:    "column without type",
			mutate:  func(d *Descriptor) { d.Columns[1].Tokens = nil },
			wantErr: "column name has no type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := zones()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustValidate_Panics(t *testing.T) {
	assert.Panics(t, func() { MustValidate(Descriptor{BaseName: "x"}) })
	assert.NotPanics(t, func() { MustValidate(zones()) })
}

func TestHasColumn(t *testing.T) {
	d := zones()
	assert.True(t, d.HasColumn("zone"))
	assert.False(t, d.HasColumn("Zone"))
}
