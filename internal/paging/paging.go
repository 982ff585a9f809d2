// Package paging drains offset/limit queries into a single slice.
package paging

import (
	"context"
	"fmt"

	"salonretail/backend/internal/store"
)

const DefaultPageSize = 1000

// FetchFunc loads one page of rows.
type FetchFunc[T any] func(ctx context.Context, page store.Page) ([]T, error)

// FetchAll requests successive pages until one comes back shorter than
// pageSize. The first failing page aborts the whole fetch; rows gathered so
// far are discarded.
func FetchAll[T any](ctx context.Context, pageSize int, fetch FetchFunc[T]) ([]T, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var all []T
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := fetch(ctx, store.Page{Offset: offset, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("fetch rows %d-%d: %w", offset, offset+pageSize-1, err)
		}
		all = append(all, rows...)
		if len(rows) < pageSize {
			return all, nil
		}
	}
}

// Chunk splits ids into consecutive groups of at most size elements.
func Chunk[T any](ids []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	chunks := make([][]T, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
