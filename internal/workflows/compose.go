package workflows

import (
	"fmt"
	"strings"
)

const (
	prerequisiteHeading = "**PREREQUISITES TO EXECUTE THIS STEP**"
	instructionsHeading = "**INSTRUCTIONS OF THE STEP:**"
	noteHeading         = "**IMPORTANT NOTE**"
)

// Compose renders steps into the instruction text stored alongside a workflow.
//
// Each step becomes a block opened by a "## STEP" header, followed by its
// prerequisite, prompt, and note when those are non-blank. Lines within a block
// are separated by a newline and blocks by a blank line. Compose is pure and an
// empty list yields an empty string.
func Compose(steps Steps) string {
	blocks := make([]string, 0, len(steps))
	for _, step := range steps {
		blocks = append(blocks, composeStep(step))
	}
	return strings.Join(blocks, "\n\n")
}

func composeStep(step Step) string {
	lines := []string{
		fmt.Sprintf("## STEP %s: Invoke node `%s`", step.ID, step.Node),
	}

	if prerequisite := strings.TrimSpace(step.Prerequisite); prerequisite != "" {
		lines = append(lines, prerequisiteHeading, prerequisite, instructionsHeading)
	}

	if prompt := strings.TrimSpace(step.Prompt); prompt != "" {
		lines = append(lines, prompt)
	}

	if note := strings.TrimSpace(step.Note); note != "" {
		lines = append(lines, noteHeading, note)
	}

	return strings.Join(lines, "\n")
}
