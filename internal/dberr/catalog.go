// Copyright (c) 2025 Metroline
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dberr

import (
	"fmt"
	"maps"
)

// Catalog maps constraint names to messages, one table per resolvable kind.
type Catalog struct {
	Unique map[string]string
	Check  map[string]string
}

// With returns a new catalog holding the entries of both; other wins on conflict.
func (c Catalog) With(other Catalog) Catalog {
	out := Catalog{
		Unique: make(map[string]string, len(c.Unique)+len(other.Unique)),
		Check:  make(map[string]string, len(c.Check)+len(other.Check)),
	}
	maps.Copy(out.Unique, c.Unique)
	maps.Copy(out.Unique, other.Unique)
	maps.Copy(out.Check, c.Check)
	maps.Copy(out.Check, other.Check)
	return out
}

// Message resolves the human-facing text for a violation.
func (c Catalog) Message(v Violation) string {
	switch v.Kind {
	case Unique:
		return lookup(c.Unique, v.Constraint, "unique constraint `%s` violated")
	case Check:
		return lookup(c.Check, v.Constraint, "check constraint `%s` violated")
	case ForeignKey:
		return "related rows exist (foreign key violation)"
	case NotNull:
		return "required field is missing"
	default:
		return "database error: " + FirstLine(v.Raw)
	}
}

func lookup(table map[string]string, name, fallback string) string {
	if msg, ok := table[name]; ok {
		return msg
	}
	return fmt.Sprintf(fallback, name)
}
