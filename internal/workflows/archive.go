package workflows

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Ledger maps an archived version number, as a decimal string, to the step list
// that was live before the archival save replaced it. Entries are kept as raw
// JSON so historical snapshots are never re-encoded.
type Ledger map[string]json.RawMessage

// Scan implements sql.Scanner for the historicalworkflow jsonb column.
func (l *Ledger) Scan(src any) error {
	var ledger Ledger
	if err := scanJSONB(src, &ledger); err != nil {
		return fmt.Errorf("scan ledger: %w", err)
	}
	*l = ledger
	return nil
}

// Value implements driver.Valuer.
func (l Ledger) Value() (driver.Value, error) {
	if l == nil {
		l = Ledger{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// maxVersionKey returns the largest key made only of ASCII digits.
func (l Ledger) maxVersionKey() (int, bool) {
	best, found := 0, false
	for key := range l {
		if !isDigits(key) {
			continue
		}
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	return best, found
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ArchiveState is the stored portion of a workflow read before an archival save.
type ArchiveState struct {
	Steps   Steps
	Ledger  Ledger
	Version *int
}

// ArchivePlan is what an archival save writes back.
type ArchivePlan struct {
	Ledger  Ledger
	Version int
	Prompt  string

	// ArchivedKey is the ledger key the previous steps were stored under.
	// Empty when there were no previous steps to archive.
	ArchivedKey string
}

// PlanArchive computes the result of saving next as a new version of a workflow
// currently in state. The input ledger is not modified.
//
// The previous steps are filed under one past the largest numeric ledger key, or
// under the current version when the ledger has no numeric keys. That key can
// run ahead of the version column once earlier archival saves skipped empty step
// lists; the drift is kept as is since stored ledgers already depend on it.
func PlanArchive(state ArchiveState, next Steps) (ArchivePlan, error) {
	ledger := make(Ledger, len(state.Ledger)+1)
	maps.Copy(ledger, state.Ledger)

	current := 1
	if state.Version != nil && *state.Version != 0 {
		current = *state.Version
	}

	key := current
	if latest, ok := ledger.maxVersionKey(); ok {
		key = latest + 1
	}

	plan := ArchivePlan{
		Ledger:  ledger,
		Version: current + 1,
		Prompt:  Compose(next),
	}

	if len(state.Steps) > 0 {
		snapshot, err := json.Marshal(state.Steps)
		if err != nil {
			return ArchivePlan{}, fmt.Errorf("encode archived steps: %w", err)
		}
		plan.ArchivedKey = strconv.Itoa(key)
		ledger[plan.ArchivedKey] = snapshot
	}

	return plan, nil
}
