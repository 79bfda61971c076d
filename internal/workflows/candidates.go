package workflows

import "slices"

// RunTypeLoan selects loan-level test candidates. Any other run type is
// treated as borrower-level.
const RunTypeLoan = "loan"

const (
	loanCandidateLimit     = 100
	borrowerCandidateLimit = 200
)

// BorrowerRef identifies one borrower on a candidate loan.
type BorrowerRef struct {
	ID        string `json:"id"`
	IsPrimary bool   `json:"isPrimary"`
}

// LoanDetail is a loan available for a test run along with its borrowers.
type LoanDetail struct {
	LoanNumber  string        `json:"loanNumber"`
	BorrowerIDs []BorrowerRef `json:"borrowerIDs"`
}

// BorrowerRow is one loan and borrower pair read from the document index.
type BorrowerRow struct {
	LoanNumber string
	BorrowerID string
}

// ShapeLoans builds one LoanDetail per loan number with an empty borrower list.
func ShapeLoans(loanNumbers []string) []LoanDetail {
	details := make([]LoanDetail, 0, len(loanNumbers))
	for _, loan := range loanNumbers {
		details = append(details, LoanDetail{
			LoanNumber:  loan,
			BorrowerIDs: []BorrowerRef{},
		})
	}
	return details
}

// ShapeBorrowers groups rows by loan number in first-seen order. Borrowers are
// deduplicated within a loan and the first one seen is marked primary, so the
// row order decides which borrower is primary.
func ShapeBorrowers(rows []BorrowerRow) []LoanDetail {
	details := make([]LoanDetail, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.LoanNumber]
		if !ok {
			i = len(details)
			index[row.LoanNumber] = i
			details = append(details, LoanDetail{
				LoanNumber:  row.LoanNumber,
				BorrowerIDs: []BorrowerRef{},
			})
		}

		if slices.ContainsFunc(details[i].BorrowerIDs, func(ref BorrowerRef) bool {
			return ref.ID == row.BorrowerID
		}) {
			continue
		}

		details[i].BorrowerIDs = append(details[i].BorrowerIDs, BorrowerRef{
			ID:        row.BorrowerID,
			IsPrimary: len(details[i].BorrowerIDs) == 0,
		})
	}

	return details
}
