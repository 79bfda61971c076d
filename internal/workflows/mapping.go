package workflows

import (
	"net/url"

	"github.com/JaimeStill/stepwise/pkg/query"
	"github.com/JaimeStill/stepwise/pkg/repository"
)

const summaryColumns = `id, "workflowName", description, category, doc_type, other_doc, version, "flowType", data_point, runtype`

var summaryProjection = query.
	NewProjectionMap("common", "mortgage_workflow", "w").
	Project("id", "id").
	Project(`"workflowName"`, "workflowName").
	Project("description", "description").
	Project("category", "category").
	Project("doc_type", "doc_type").
	Project("other_doc", "other_doc").
	Project("version", "version").
	Project(`"flowType"`, "flowType").
	Project("data_point", "data_point").
	Project("runtype", "runtype")

var workflowProjection = query.
	NewProjectionMap("common", "mortgage_workflow", "w").
	Project("id", "id").
	Project(`"workflowName"`, "workflowName").
	Project("description", "description").
	Project("category", "category").
	Project("doc_type", "doc_type").
	Project("other_doc", "other_doc").
	Project("version", "version").
	Project(`"flowType"`, "flowType").
	Project("runtype", "runtype").
	Project("data_point", "data_point").
	Project("workflow", "workflow").
	Project("prompt", "prompt").
	Project("historicalworkflow", "historicalworkflow").
	Project("updated_at", "updated_at")

var defaultSort = query.SortField{
	Field: "id",
}

// Filters contains optional filtering criteria for workflow searches.
// Nil fields are ignored. WorkflowName uses case-insensitive contains
// matching; the rest match exactly.
type Filters struct {
	WorkflowName *string `json:"workflowName,omitempty"`
	Category     *string `json:"category,omitempty"`
	DocType      *string `json:"doc_type,omitempty"`
	FlowType     *string `json:"flowType,omitempty"`
	RunType      *string `json:"runtype,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("workflowName", f.WorkflowName).
		WhereEquals("category", f.Category).
		WhereEquals("doc_type", f.DocType).
		WhereEquals("flowType", f.FlowType).
		WhereEquals("runtype", f.RunType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	for key, dst := range map[string]**string{
		"workflowName": &f.WorkflowName,
		"category":     &f.Category,
		"doc_type":     &f.DocType,
		"flowType":     &f.FlowType,
		"runtype":      &f.RunType,
	} {
		if v := values.Get(key); v != "" {
			*dst = &v
		}
	}

	return f
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var w Summary
	err := s.Scan(
		&w.ID,
		&w.WorkflowName,
		&w.Description,
		&w.Category,
		&w.DocType,
		&w.OtherDocTypes,
		&w.Version,
		&w.FlowType,
		&w.DataPoint,
		&w.RunType,
	)
	return w.withDataPointName(), err
}

func scanWorkflow(s repository.Scanner) (Workflow, error) {
	var w Workflow
	err := s.Scan(
		&w.ID,
		&w.WorkflowName,
		&w.Description,
		&w.Category,
		&w.DocType,
		&w.OtherDocTypes,
		&w.Version,
		&w.FlowType,
		&w.RunType,
		&w.DataPoint,
		&w.Steps,
		&w.ComposedPrompt,
		&w.HistoricalVersions,
		&w.UpdatedAt,
	)
	return w, err
}

func scanArchiveState(s repository.Scanner) (ArchiveState, error) {
	var st ArchiveState
	err := s.Scan(&st.Steps, &st.Ledger, &st.Version)
	return st, err
}

func scanDataPoint(s repository.Scanner) (DataPoint, error) {
	var d DataPoint
	err := s.Scan(&d.ID, &d.DatapointName)
	return d, err
}

func scanBorrowerRow(s repository.Scanner) (BorrowerRow, error) {
	var r BorrowerRow
	err := s.Scan(&r.LoanNumber, &r.BorrowerID)
	return r, err
}

func scanLoanNumber(s repository.Scanner) (string, error) {
	var loan string
	err := s.Scan(&loan)
	return loan, err
}
