package workflows_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/stepwise/internal/workflows"
	"github.com/JaimeStill/stepwise/pkg/pagination"
)

const schemaFile = "../../cmd/migrate/migrations/000001_create_common_schema.up.sql"

func setupDatabase(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("stepwise"),
		postgres.WithUsername("stepwise"),
		postgres.WithPassword("stepwise"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(filepath.Clean(schemaFile))
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, string(schema))
	require.NoError(t, err)

	return db
}

func newTestRepo(db *sql.DB, reg prometheus.Registerer) workflows.System {
	return workflows.New(
		db,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		reg,
	)
}

func TestRepository(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	sys := newTestRepo(db, reg)

	metadata := workflows.Metadata{
		WorkflowName:  "Income",
		Description:   ptr("Verify income"),
		Category:      "Underwriting",
		DocType:       "W2",
		OtherDocTypes: workflows.DocTypes{"Paystub"},
		FlowType:      "extraction",
	}

	created, err := sys.Create(ctx, workflows.CreateCommand{Metadata: metadata})
	require.NoError(t, err)
	require.NotNil(t, created.Version)
	assert.Equal(t, 1, *created.Version)
	assert.Equal(t, workflows.DocTypes{"Paystub"}, created.OtherDocTypes)

	id := created.ID

	t.Run("repeated saves leave version and ledger untouched", func(t *testing.T) {
		var steps workflows.Steps
		for i, prompt := range []string{"Read box 3", "Read box 2", "Read box 1"} {
			steps = mustSteps(t, `[{"id":"1","node":"extract","prompt":"`+prompt+`"}]`)
			require.NoError(t, sys.Save(ctx, id, workflows.SaveCommand{Metadata: metadata, Steps: steps}))

			details, err := sys.Details(ctx, id)
			require.NoError(t, err)

			w := details.WorkflowDetails
			require.NotNil(t, w.Version)
			assert.Equal(t, 1, *w.Version, "after save %d", i+1)
			assert.Empty(t, w.HistoricalVersions, "after save %d", i+1)
			require.NotNil(t, w.ComposedPrompt)
			assert.Equal(t, workflows.Compose(steps), *w.ComposedPrompt)
			require.NotNil(t, w.RunType)
			assert.Equal(t, workflows.RunTypeLoan, *w.RunType)
			assert.Equal(t, float64(i+1), savesTotal(t, reg, "normal"))
		}
	})

	t.Run("save version archives the live steps", func(t *testing.T) {
		next := mustSteps(t, `[{"id":"1","node":"extract","prompt":"Read box 2"}]`)

		version, err := sys.SaveVersion(ctx, id, workflows.SaveCommand{Metadata: metadata, Steps: next})
		require.NoError(t, err)
		assert.Equal(t, 2, version)

		version, err = sys.SaveVersion(ctx, id, workflows.SaveCommand{Metadata: metadata, Steps: next})
		require.NoError(t, err)
		assert.Equal(t, 3, version)

		details, err := sys.Details(ctx, id)
		require.NoError(t, err)

		ledger := details.WorkflowDetails.HistoricalVersions
		require.Len(t, ledger, 2)

		var first workflows.Steps
		require.NoError(t, json.Unmarshal(ledger["1"], &first))
		require.Len(t, first, 1)
		assert.Equal(t, "Read box 1", first[0].Prompt)
		assert.Contains(t, ledger, "2")
	})

	t.Run("update never lowers the version", func(t *testing.T) {
		updated, err := sys.Update(ctx, id, workflows.CreateCommand{Metadata: metadata, Version: ptr(1)})
		require.NoError(t, err)
		require.NotNil(t, updated.Version)
		assert.Equal(t, 3, *updated.Version)
	})

	t.Run("data points appear in details", func(t *testing.T) {
		dp := "Gross Income"
		other, err := sys.Create(ctx, workflows.CreateCommand{Metadata: metadata})
		require.NoError(t, err)
		require.NoError(t, sys.Save(ctx, other.ID, workflows.SaveCommand{
			Metadata:  workflows.Metadata{Category: "c", DocType: "d", FlowType: "f"},
			Steps:     workflows.Steps{},
			DataPoint: &dp,
		}))

		details, err := sys.Details(ctx, id)
		require.NoError(t, err)
		assert.Contains(t, details.DatapointList, workflows.DataPoint{ID: other.ID, DatapointName: dp})

		list, err := sys.List(ctx)
		require.NoError(t, err)
		var named *workflows.Summary
		for i := range list {
			if list[i].ID == other.ID {
				named = &list[i]
			}
		}
		require.NotNil(t, named)
		require.NotNil(t, named.WorkflowName)
		assert.Equal(t, dp, *named.WorkflowName)
	})

	t.Run("search filters by category", func(t *testing.T) {
		category := "Underwriting"
		result, err := sys.Search(ctx, pagination.PageRequest{Page: 1, PageSize: 10}, workflows.Filters{Category: &category})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("missing workflow is not found", func(t *testing.T) {
		_, err := sys.Details(ctx, 999999)
		assert.ErrorIs(t, err, workflows.ErrNotFound)

		err = sys.Save(ctx, 999999, workflows.SaveCommand{Metadata: metadata, Steps: workflows.Steps{}})
		assert.ErrorIs(t, err, workflows.ErrNotFound)

		_, err = sys.SaveVersion(ctx, 999999, workflows.SaveCommand{Metadata: metadata, Steps: workflows.Steps{}})
		assert.ErrorIs(t, err, workflows.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, sys.Delete(ctx, id))
		assert.ErrorIs(t, sys.Delete(ctx, id), workflows.ErrNotFound)
	})
}

func TestRepositoryPrepareTest(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()
	sys := newTestRepo(db, nil)

	_, err := db.ExecContext(ctx, `
		INSERT INTO common.sub_document_indexing (loan_number, borrower_id, doc_type) VALUES
			('L2', 'B3', 'W2'),
			('L1', 'B2', 'Paystub'),
			('L1', 'B1', 'W2'),
			('L1', 'B1', 'W2'),
			('L3', 'B4', '1099'),
			('', 'B5', 'W2'),
			('L4', NULL, 'W2')`)
	require.NoError(t, err)

	cmd := workflows.PrepareTestCommand{
		WorkflowID: 1,
		TestWorkflow: workflows.TestWorkflow{
			Metadata: workflows.Metadata{
				WorkflowName:  "Income",
				Category:      "Underwriting",
				DocType:       "W2",
				OtherDocTypes: workflows.DocTypes{"Paystub"},
				FlowType:      "extraction",
			},
			Steps: workflows.Steps{},
		},
	}

	t.Run("loan run lists loan numbers", func(t *testing.T) {
		cmd.RunType = workflows.RunTypeLoan
		result, err := sys.PrepareTest(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, []workflows.LoanDetail{
			{LoanNumber: "L1", BorrowerIDs: []workflows.BorrowerRef{}},
			{LoanNumber: "L2", BorrowerIDs: []workflows.BorrowerRef{}},
			{LoanNumber: "L4", BorrowerIDs: []workflows.BorrowerRef{}},
		}, result.LoanDetails)
		assert.Equal(t, workflows.RunTypeLoan, result.TestWorkflow.RunType)
	})

	t.Run("borrower run groups borrowers", func(t *testing.T) {
		cmd.RunType = "borrower"
		result, err := sys.PrepareTest(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, []workflows.LoanDetail{
			{LoanNumber: "L1", BorrowerIDs: []workflows.BorrowerRef{
				{ID: "B1", IsPrimary: true},
				{ID: "B2", IsPrimary: false},
			}},
			{LoanNumber: "L2", BorrowerIDs: []workflows.BorrowerRef{
				{ID: "B3", IsPrimary: true},
			}},
		}, result.LoanDetails)
	})
}

func savesTotal(t *testing.T, reg *prometheus.Registry, kind string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "stepwise_workflows_saves_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "kind" && label.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
