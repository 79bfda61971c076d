// Package documents exposes the catalog of document types that workflows
// can target.
package documents

import "context"

// System defines the public contract for document type operations.
type System interface {
	Handler() *Handler

	// List returns the distinct configured document types in ascending order.
	List(ctx context.Context) ([]string, error)
}
