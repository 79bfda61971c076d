package workflows

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/stepwise/pkg/pagination"
	"github.com/JaimeStill/stepwise/pkg/query"
	"github.com/JaimeStill/stepwise/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	metrics    *metrics
}

// New creates a workflow repository implementing the System interface.
// Counters are registered with reg when it is non-nil.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	reg prometheus.Registerer,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "workflows"),
		pagination: pagination,
		metrics:    newMetrics(reg),
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) List(ctx context.Context) ([]Summary, error) {
	q, args := query.NewBuilder(summaryProjection, defaultSort).Build()

	workflows, err := repository.QueryMany(ctx, r.db, q, args, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}

	r.logger.Debug("workflows listed", "count", len(workflows))
	return workflows, nil
}

func (r *repo) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Summary], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(summaryProjection, defaultSort).
		WhereSearch(page.Search, "workflowName", "description", "data_point")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count workflows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	workflows, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}

	result := pagination.NewPageResult(workflows, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Details(ctx context.Context, id int64) (*Details, error) {
	var (
		workflow   Workflow
		dataPoints []DataPoint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, args := query.NewBuilder(workflowProjection).BuildSingle("id", id)
		w, err := repository.QueryOne(gctx, r.db, q, args, scanWorkflow)
		if err != nil {
			return repository.MapError(err, &NotFoundError{ID: id}, ErrDuplicate)
		}
		workflow = w
		return nil
	})

	g.Go(func() error {
		q := `
			SELECT DISTINCT id, data_point AS "datapointName"
			FROM common.mortgage_workflow
			WHERE data_point IS NOT NULL
			ORDER BY data_point`

		dp, err := repository.QueryMany(gctx, r.db, q, nil, scanDataPoint)
		if err != nil {
			return fmt.Errorf("query data points: %w", err)
		}
		dataPoints = dp
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Info("workflow details retrieved", "id", id, "data_points", len(dataPoints))
	return &Details{
		WorkflowDetails: workflow,
		DatapointList:   dataPoints,
	}, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Summary, error) {
	version := 1
	if cmd.Version != nil {
		version = *cmd.Version
	}

	q := `
		INSERT INTO common.mortgage_workflow
			("workflowName", description, category, doc_type, other_doc, version, "flowType", updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING ` + summaryColumns

	args := []any{
		cmd.WorkflowName,
		cmd.Description,
		cmd.Category,
		cmd.DocType,
		cmd.OtherDocTypes,
		version,
		cmd.FlowType,
	}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Summary, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSummary)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow created", "id", w.ID, "name", cmd.WorkflowName, "flow_type", cmd.FlowType)
	return &w, nil
}

// Update overwrites workflow metadata. A supplied version only takes effect
// when it is ahead of the stored one, keeping version non-decreasing.
func (r *repo) Update(ctx context.Context, id int64, cmd CreateCommand) (*Summary, error) {
	q := `
		UPDATE common.mortgage_workflow
		SET
			"workflowName" = $1,
			description = $2,
			category = $3,
			doc_type = $4,
			other_doc = $5,
			version = GREATEST(COALESCE(version, 1), COALESCE($6::integer, version, 1)),
			"flowType" = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + summaryColumns

	args := []any{
		cmd.WorkflowName,
		cmd.Description,
		cmd.Category,
		cmd.DocType,
		cmd.OtherDocTypes,
		cmd.Version,
		cmd.FlowType,
		id,
	}

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Summary, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSummary)
	})

	if err != nil {
		return nil, repository.MapError(err, &NotFoundError{ID: id}, ErrDuplicate)
	}

	r.logger.Info("workflow updated", "id", w.ID, "name", cmd.WorkflowName)
	return &w, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM common.mortgage_workflow WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, &NotFoundError{ID: id}, ErrDuplicate)
	}

	r.logger.Info("workflow deleted", "id", id)
	return nil
}

func (r *repo) Save(ctx context.Context, id int64, cmd SaveCommand) error {
	prompt := Compose(cmd.Steps)

	q := `
		UPDATE common.mortgage_workflow
		SET
			"workflowName" = $1,
			description = $2,
			category = $3,
			doc_type = $4,
			other_doc = $5,
			"flowType" = $6,
			runtype = $7,
			workflow = $8,
			prompt = $9,
			data_point = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`

	args := []any{
		cmd.WorkflowName,
		cmd.Description,
		cmd.Category,
		cmd.DocType,
		cmd.OtherDocTypes,
		cmd.FlowType,
		cmd.RunTypeOrDefault(),
		cmd.Steps,
		prompt,
		cmd.DataPoint,
		id,
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, args...)
	})

	if err != nil {
		return repository.MapError(err, &NotFoundError{ID: id}, ErrDuplicate)
	}

	r.metrics.saves.WithLabelValues(saveKindNormal).Inc()
	r.logger.Info("workflow saved", "id", id, "steps", len(cmd.Steps), "prompt_length", len(prompt))
	return nil
}

// SaveVersion reads and rewrites the row in one transaction but takes no row
// lock. Two concurrent calls on the same workflow can plan from the same state,
// in which case the later commit wins and one archived snapshot is lost.
func (r *repo) SaveVersion(ctx context.Context, id int64, cmd SaveCommand) (int, error) {
	update := `
		UPDATE common.mortgage_workflow
		SET
			"workflowName" = $1,
			description = $2,
			category = $3,
			doc_type = $4,
			other_doc = $5,
			"flowType" = $6,
			runtype = $7,
			workflow = $8,
			historicalworkflow = $9,
			version = $10,
			prompt = $11,
			data_point = $12,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $13`

	plan, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ArchivePlan, error) {
		state, err := repository.QueryOne(
			ctx, tx,
			"SELECT workflow, historicalworkflow, version FROM common.mortgage_workflow WHERE id = $1",
			[]any{id},
			scanArchiveState,
		)
		if err != nil {
			return ArchivePlan{}, err
		}

		plan, err := PlanArchive(state, cmd.Steps)
		if err != nil {
			return ArchivePlan{}, err
		}

		err = repository.ExecExpectOne(
			ctx, tx, update,
			cmd.WorkflowName,
			cmd.Description,
			cmd.Category,
			cmd.DocType,
			cmd.OtherDocTypes,
			cmd.FlowType,
			cmd.RunTypeOrDefault(),
			cmd.Steps,
			plan.Ledger,
			plan.Version,
			plan.Prompt,
			cmd.DataPoint,
			id,
		)
		return plan, err
	})

	if err != nil {
		return 0, repository.MapError(err, &NotFoundError{ID: id}, ErrDuplicate)
	}

	r.metrics.saves.WithLabelValues(saveKindVersion).Inc()
	if plan.ArchivedKey != "" {
		r.metrics.archived.Inc()
	}

	r.logger.Info(
		"workflow saved as version",
		"id", id,
		"version", plan.Version,
		"archived_key", plan.ArchivedKey,
	)
	return plan.Version, nil
}

func (r *repo) PrepareTest(ctx context.Context, cmd PrepareTestCommand) (*PrepareTestResult, error) {
	docTypes := cmd.DocTypes()

	var (
		details []LoanDetail
		err     error
	)

	if cmd.RunType == RunTypeLoan {
		details, err = r.loanCandidates(ctx, docTypes)
	} else {
		details, err = r.borrowerCandidates(ctx, docTypes)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info(
		"test data prepared",
		"workflow_id", cmd.WorkflowID,
		"run_type", cmd.RunType,
		"doc_types", docTypes,
		"loans", len(details),
	)

	return &PrepareTestResult{
		TestWorkflow: cmd.TestWorkflow,
		LoanDetails:  details,
	}, nil
}

func (r *repo) loanCandidates(ctx context.Context, docTypes []string) ([]LoanDetail, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT loan_number
		FROM common.sub_document_indexing
		WHERE doc_type = ANY($1)
		AND loan_number IS NOT NULL
		AND loan_number != ''
		ORDER BY loan_number
		LIMIT %d`, loanCandidateLimit)

	loans, err := repository.QueryMany(ctx, r.db, q, []any{docTypes}, scanLoanNumber)
	if err != nil {
		return nil, fmt.Errorf("query loan candidates: %w", err)
	}
	return ShapeLoans(loans), nil
}

func (r *repo) borrowerCandidates(ctx context.Context, docTypes []string) ([]LoanDetail, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT loan_number, borrower_id
		FROM common.sub_document_indexing
		WHERE doc_type = ANY($1)
		AND loan_number IS NOT NULL
		AND loan_number != ''
		AND borrower_id IS NOT NULL
		AND borrower_id != ''
		ORDER BY loan_number, borrower_id
		LIMIT %d`, borrowerCandidateLimit)

	rows, err := repository.QueryMany(ctx, r.db, q, []any{docTypes}, scanBorrowerRow)
	if err != nil {
		return nil, fmt.Errorf("query borrower candidates: %w", err)
	}
	return ShapeBorrowers(rows), nil
}
