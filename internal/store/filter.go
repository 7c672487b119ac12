package store

import (
	"fmt"
	"strings"
)

// Filter assembles a parameterized WHERE clause from a fixed set of typed
// predicates: equality, set membership, ranges, case-insensitive substring
// match and OR-groups over several columns. Every repository builds its
// query through it, so the predicate language stays shared and testable
// independent of the schema. Predicates are only added when a filter value
// is present; an absent filter imposes no constraint.
type Filter struct {
	conds []string
	args  []any
}

// NewFilter returns an empty filter matching every row.
func NewFilter() *Filter {
	return &Filter{}
}

// Eq requires column = value.
func (f *Filter) Eq(column string, value any) *Filter {
	f.conds = append(f.conds, column+" = ?")
	f.args = append(f.args, value)
	return f
}

// In requires column to be one of values. A no-op for an empty set.
func (f *Filter) In(column string, values ...any) *Filter {
	if len(values) == 0 {
		return f
	}
	f.conds = append(f.conds, fmt.Sprintf("%s IN (%s)", column, placeholders(len(values))))
	f.args = append(f.args, values...)
	return f
}

// InJSON requires the JSON array column to contain at least one of values.
// A no-op for an empty set.
func (f *Filter) InJSON(column string, values ...any) *Filter {
	if len(values) == 0 {
		return f
	}
	f.conds = append(f.conds,
		fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))",
			column, placeholders(len(values))))
	f.args = append(f.args, values...)
	return f
}

// GTE requires column >= value.
func (f *Filter) GTE(column string, value any) *Filter {
	f.conds = append(f.conds, column+" >= ?")
	f.args = append(f.args, value)
	return f
}

// LTE requires column <= value.
func (f *Filter) LTE(column string, value any) *Filter {
	f.conds = append(f.conds, column+" <= ?")
	f.args = append(f.args, value)
	return f
}

// ContainsAny requires a case-insensitive substring match of needle in at
// least one of the columns. A no-op when needle is blank.
func (f *Filter) ContainsAny(needle string, columns ...string) *Filter {
	needle = strings.TrimSpace(needle)
	if needle == "" || len(columns) == 0 {
		return f
	}
	pattern := "%" + escapeLike(strings.ToLower(needle)) + "%"
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column)
		f.args = append(f.args, pattern)
	}
	f.conds = append(f.conds, "("+strings.Join(parts, " OR ")+")")
	return f
}

// Raw appends a hand-written condition with its arguments.
func (f *Filter) Raw(cond string, args ...any) *Filter {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
	return f
}

// Scope adds the soft-delete visibility predicate. ScopeLive is the
// default view everywhere; forgetting to apply a scope on a new read path
// is a correctness bug, so the scope is an explicit argument on every
// query builder rather than an implicit hook.
func (f *Filter) Scope(scope Scope) *Filter {
	switch scope {
	case ScopeOnlyDeleted:
		f.conds = append(f.conds, "is_deleted = 1")
	case ScopeWithDeleted:
		// no predicate: deleted rows stay visible alongside live ones
	default:
		f.conds = append(f.conds, "is_deleted = 0")
	}
	return f
}

// Clause renders the assembled predicates as a " WHERE ..." fragment and
// its arguments, or an empty string when no predicate was added.
func (f *Filter) Clause() (string, []any) {
	if len(f.conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(f.conds, " AND "), f.args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// escapeLike escapes LIKE wildcards so user-supplied search terms match
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// anyValues widens a typed slice for use with In/InJSON.
func anyValues[T any](values []T) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
