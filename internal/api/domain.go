package api

import (
	"github.com/JaimeStill/stepwise/internal/documents"
	"github.com/JaimeStill/stepwise/internal/workflows"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Workflows workflows.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Documents: documents.New(
			runtime.Database.Connection(),
			runtime.Logger,
		),
		Workflows: workflows.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
			runtime.Metrics,
		),
	}
}
