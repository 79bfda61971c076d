package workflows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/stepwise/internal/workflows"
)

func TestShapeLoans(t *testing.T) {
	got := workflows.ShapeLoans([]string{"L1", "L2"})

	assert.Equal(t, []workflows.LoanDetail{
		{LoanNumber: "L1", BorrowerIDs: []workflows.BorrowerRef{}},
		{LoanNumber: "L2", BorrowerIDs: []workflows.BorrowerRef{}},
	}, got)
	assert.NotNil(t, workflows.ShapeLoans(nil))
}

func TestShapeBorrowers(t *testing.T) {
	t.Run("groups by loan and marks first borrower primary", func(t *testing.T) {
		rows := []workflows.BorrowerRow{
			{LoanNumber: "L1", BorrowerID: "B1"},
			{LoanNumber: "L1", BorrowerID: "B2"},
			{LoanNumber: "L2", BorrowerID: "B3"},
		}

		assert.Equal(t, []workflows.LoanDetail{
			{
				LoanNumber: "L1",
				BorrowerIDs: []workflows.BorrowerRef{
					{ID: "B1", IsPrimary: true},
					{ID: "B2", IsPrimary: false},
				},
			},
			{
				LoanNumber: "L2",
				BorrowerIDs: []workflows.BorrowerRef{
					{ID: "B3", IsPrimary: true},
				},
			},
		}, workflows.ShapeBorrowers(rows))
	})

	t.Run("keeps first seen loan order and drops duplicate borrowers", func(t *testing.T) {
		rows := []workflows.BorrowerRow{
			{LoanNumber: "L9", BorrowerID: "B1"},
			{LoanNumber: "L1", BorrowerID: "B2"},
			{LoanNumber: "L9", BorrowerID: "B1"},
			{LoanNumber: "L9", BorrowerID: "B3"},
		}

		got := workflows.ShapeBorrowers(rows)
		assert.Len(t, got, 2)
		assert.Equal(t, "L9", got[0].LoanNumber)
		assert.Equal(t, []workflows.BorrowerRef{
			{ID: "B1", IsPrimary: true},
			{ID: "B3", IsPrimary: false},
		}, got[0].BorrowerIDs)
	})

	t.Run("no rows yields empty list", func(t *testing.T) {
		got := workflows.ShapeBorrowers(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
