package rules

import (
	"fmt"
	"strings"

	"github.com/homectl/go-tasmota/pkg/tasmota/types"
)

// statementSeparator joins Backlog statements. The device splits on ';'.
const statementSeparator = "; "

func powerValue(on bool) int {
	if on {
		return 1
	}
	return 0
}

// backlogStatements builds the ordered action statements: set the output,
// optionally delay and revert (a pulse), optionally disable a rule slot.
// pulseSeconds <= 0 means no pulse; a zero-length pulse would be a no-op on
// the device, so it is treated the same as no pulse at all.
func backlogStatements(output int, on bool, pulseSeconds int, autoDisable bool, disableIndex int, limits types.Limits) []string {
	stmts := []string{fmt.Sprintf("Power%d %d", output, powerValue(on))}
	if pulseSeconds > 0 {
		stmts = append(stmts,
			fmt.Sprintf("Delay %d", pulseSeconds*limits.DelayUnitsPerSecond),
			fmt.Sprintf("Power%d %d", output, powerValue(!on)))
	}
	if autoDisable {
		stmts = append(stmts, fmt.Sprintf("Rule%d 0", disableIndex))
	}
	return stmts
}

func backlog(stmts []string) string {
	return "Backlog " + strings.Join(stmts, statementSeparator)
}

// BuildBacklog composes a single Backlog directive performing the action,
// e.g. BuildBacklog(1, true, 5, false, 0, limits) yields
// "Backlog Power1 1; Delay 50; Power1 0".
func BuildBacklog(output int, on bool, pulseSeconds int, autoDisable bool, disableIndex int, limits types.Limits) string {
	return backlog(backlogStatements(output, on, pulseSeconds, autoDisable, disableIndex, limits))
}

// BuildMultiBacklog sets several outputs to the same state in one directive,
// in input order.
func BuildMultiBacklog(outputs []int, on bool) string {
	stmts := make([]string, 0, len(outputs))
	for _, o := range outputs {
		stmts = append(stmts, fmt.Sprintf("Power%d %d", o, powerValue(on)))
	}
	return backlog(stmts)
}
