package store

import (
	"context"
	"errors"
)

// ErrTabNotFound is wrapped by reads of a tab that does not exist
var ErrTabNotFound = errors.New("tab not found")

// Table is a named sheet of text cells with a header row
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Column returns the index of a header cell or -1
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// TableStore persists dated tabs of rows
type TableStore interface {
	// ReplaceTab writes the table, replacing any tab of the same name
	ReplaceTab(ctx context.Context, t Table) error

	// ReadTab returns a stored tab with its rows in write order
	ReadTab(ctx context.Context, name string) (Table, error)

	// ListTabs returns the tab names in sorted order
	ListTabs(ctx context.Context) ([]string, error)

	// DeleteTab removes a tab and its rows
	DeleteTab(ctx context.Context, name string) error

	// Close releases the underlying connection
	Close() error
}
