package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Pagination limits
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Page carries cursor pagination parameters. Cursor is the opaque wire
// form of the last seen primary key; a malformed cursor is treated as
// absent rather than rejected, since pagination is rarely resumable across
// a hard restart anyway.
type Page struct {
	Limit  int
	Cursor string
}

// Paginated is one window of a filtered, descending-id-ordered result set.
// Concurrent writes between pages can cause rows to be skipped or repeated;
// there is no snapshot isolation across pages.
type Paginated[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// normalizeLimit clamps the page size to [1, MaxPageSize], defaulting when
// unset.
func normalizeLimit(limit int) int {
	if limit == 0 {
		return DefaultPageSize
	}
	return min(max(limit, 1), MaxPageSize)
}

// entity constrains pagination to rows exposing their primary identifier.
type entity interface {
	EntityID() int64
}

// paginate runs the filtered query ordered by descending id, fetching one
// row beyond the page size so a further page is detected without a count
// query. The id doubles as insertion order and is unique, so no secondary
// sort key is needed.
func paginate[T entity](
	ctx context.Context,
	db *sql.DB,
	selectSQL string,
	filter *Filter,
	page Page,
	scan func(rowScanner) (T, error),
) (Paginated[T], error) {
	size := normalizeLimit(page.Limit)

	if page.Cursor != "" {
		if cursorID, err := ParseID(page.Cursor); err == nil {
			filter.Raw("id < ?", cursorID)
		}
	}

	where, args := filter.Clause()
	query := selectSQL + where + " ORDER BY id DESC LIMIT ?"
	args = append(args, size+1)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return Paginated[T]{}, fmt.Errorf("listing: %w", err)
	}
	defer rows.Close()

	result := Paginated[T]{Items: []T{}}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return Paginated[T]{}, fmt.Errorf("scanning row: %w", err)
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return Paginated[T]{}, fmt.Errorf("iterating rows: %w", err)
	}

	if len(result.Items) > size {
		result.Items = result.Items[:size]
		result.HasMore = true
		result.NextCursor = FormatID(result.Items[size-1].EntityID())
	}

	return result, nil
}
