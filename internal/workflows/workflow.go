// Package workflows implements the workflow definition domain.
// It stores multi-step document processing definitions, composes their step
// lists into instruction text, archives prior step lists on versioned saves,
// and gathers candidate loans for test runs.
package workflows

import (
	"fmt"
	"strings"
	"time"
)

// Workflow is a full row of the workflow table.
type Workflow struct {
	ID                 int64      `json:"id"`
	WorkflowName       *string    `json:"workflowName"`
	Description        *string    `json:"description"`
	Category           *string    `json:"category"`
	DocType            *string    `json:"doc_type"`
	OtherDocTypes      DocTypes   `json:"other_doc"`
	Version            *int       `json:"version"`
	FlowType           *string    `json:"flowType"`
	RunType            *string    `json:"runtype"`
	DataPoint          *string    `json:"data_point"`
	Steps              Steps      `json:"workflow"`
	ComposedPrompt     *string    `json:"prompt"`
	HistoricalVersions Ledger     `json:"historicalworkflow"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

// Summary is the listing shape of a workflow.
type Summary struct {
	ID            int64    `json:"id"`
	WorkflowName  *string  `json:"workflowName"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	DocType       *string  `json:"doc_type"`
	OtherDocTypes DocTypes `json:"other_doc"`
	Version       *int     `json:"version"`
	FlowType      *string  `json:"flowType"`
	DataPoint     *string  `json:"data_point"`
	RunType       *string  `json:"runtype"`
}

// withDataPointName names unnamed workflows after their data point.
func (s Summary) withDataPointName() Summary {
	if (s.WorkflowName == nil || *s.WorkflowName == "") && s.DataPoint != nil && *s.DataPoint != "" {
		name := *s.DataPoint
		s.WorkflowName = &name
	}
	return s
}

// DataPoint is a workflow that extracts a named data point.
type DataPoint struct {
	ID            int64  `json:"id"`
	DatapointName string `json:"datapointName"`
}

// Details is a full workflow returned together with every known data point.
type Details struct {
	WorkflowDetails Workflow    `json:"workflowDetails"`
	DatapointList   []DataPoint `json:"datapointList"`
}

// Metadata holds the descriptive fields shared by every write request.
type Metadata struct {
	WorkflowName  string   `json:"workflowName"`
	Description   *string  `json:"description"`
	Category      string   `json:"category"`
	DocType       string   `json:"doc_type"`
	OtherDocTypes DocTypes `json:"other_doc"`
	FlowType      string   `json:"flowType"`
}

// Validate reports the first required field left blank.
func (m Metadata) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"workflowName", m.WorkflowName},
		{"category", m.Category},
		{"doc_type", m.DocType},
		{"flowType", m.FlowType},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, f.name)
		}
	}
	return nil
}

// CreateCommand carries the metadata for a new workflow or a metadata update.
// Version defaults to 1 on create.
type CreateCommand struct {
	Metadata
	Version *int `json:"version"`
}

// Validate checks the metadata and that a supplied version is at least 1.
func (c CreateCommand) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if c.Version != nil && *c.Version < 1 {
		return fmt.Errorf("%w: version must be at least 1", ErrInvalidRequest)
	}
	return nil
}

// SaveCommand carries a full workflow definition for normal and versioned saves.
type SaveCommand struct {
	Metadata
	RunType   *string `json:"runtype"`
	Steps     Steps   `json:"workflow"`
	DataPoint *string `json:"data_point"`
}

// Validate checks the metadata and that a step list was supplied.
func (c SaveCommand) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if c.Steps == nil {
		return fmt.Errorf("%w: workflow is required", ErrInvalidRequest)
	}
	return nil
}

// RunTypeOrDefault returns the requested run type, or loan when none was given.
func (c SaveCommand) RunTypeOrDefault() string {
	if c.RunType == nil {
		return RunTypeLoan
	}
	return *c.RunType
}

// SaveResult acknowledges a normal save.
type SaveResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WorkflowID int64  `json:"workflowId"`
}

// VersionResult acknowledges an archival save.
type VersionResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	WorkflowID    int64  `json:"workflowId"`
	VersionNumber int    `json:"versionNumber"`
}

// DeleteResult confirms a deleted workflow.
type DeleteResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// TestWorkflow is the workflow definition echoed back by test preparation.
type TestWorkflow struct {
	Metadata
	RunType   string  `json:"runtype"`
	Steps     Steps   `json:"workflow"`
	DataPoint *string `json:"data_point"`
}

// PrepareTestCommand requests candidate loans for a test run of a workflow.
type PrepareTestCommand struct {
	WorkflowID int64 `json:"workflowId"`
	TestWorkflow
}

// Validate checks the echoed definition and its run type.
func (c PrepareTestCommand) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.RunType) == "" {
		return fmt.Errorf("%w: runtype is required", ErrInvalidRequest)
	}
	if c.Steps == nil {
		return fmt.Errorf("%w: workflow is required", ErrInvalidRequest)
	}
	return nil
}

// DocTypes returns the primary document type followed by the others.
func (c PrepareTestCommand) DocTypes() []string {
	return c.OtherDocTypes.WithPrimary(c.DocType)
}

// PrepareTestResult is the echoed definition and its candidate loans.
type PrepareTestResult struct {
	TestWorkflow TestWorkflow `json:"testWorkflow"`
	LoanDetails  []LoanDetail `json:"loanDetails"`
}

// DraftRequest is the body accepted by the placeholder workflow endpoints.
type DraftRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	WorkflowType string  `json:"workflow_type"`
	Steps        Steps   `json:"steps"`
}

// Draft is the placeholder workflow representation returned by those endpoints.
type Draft struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	WorkflowType string  `json:"workflow_type"`
	Status       string  `json:"status"`
}
