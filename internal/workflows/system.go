package workflows

import (
	"context"

	"github.com/JaimeStill/stepwise/pkg/pagination"
)

// System defines the public contract for workflow domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	List(ctx context.Context) ([]Summary, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Summary], error)

	Details(ctx context.Context, id int64) (*Details, error)
	Create(ctx context.Context, cmd CreateCommand) (*Summary, error)
	Update(ctx context.Context, id int64, cmd CreateCommand) (*Summary, error)
	Delete(ctx context.Context, id int64) error

	// Save overwrites the live definition and recomposes its prompt.
	// Version and the historical ledger are left untouched.
	Save(ctx context.Context, id int64, cmd SaveCommand) error

	// SaveVersion archives the live steps into the historical ledger,
	// overwrites the definition, and returns the incremented version.
	SaveVersion(ctx context.Context, id int64, cmd SaveCommand) (int, error)

	PrepareTest(ctx context.Context, cmd PrepareTestCommand) (*PrepareTestResult, error)
}
