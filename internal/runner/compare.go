package runner

import (
	"fmt"
	"io"
	"slices"
)

// Compare diffs an expected against an actual run step by step and writes
// a human-readable report. Returns the number of mismatched steps; zero
// means the runs are byte-identical.
func Compare(w io.Writer, expected, actual []StepOutput) int {
	fmt.Fprintf(w, "=== Comparison Results ===\n")
	fmt.Fprintf(w, "Expected: %d steps\n", len(expected))
	fmt.Fprintf(w, "Actual: %d steps\n\n", len(actual))

	maxSteps := max(len(expected), len(actual))
	mismatched := 0

	for i := 0; i < maxSteps; i++ {
		switch {
		case i < len(expected) && i < len(actual):
			exp, act := expected[i], actual[i]
			if slices.Equal(exp.Packets, act.Packets) {
				continue
			}
			mismatched++
			fmt.Fprintf(w, "MISMATCH Step %d: %s\n", act.Index, act.Name)
			fmt.Fprintf(w, "  Expected %d packets, got %d packets\n", len(exp.Packets), len(act.Packets))
			comparePackets(w, exp.Packets, act.Packets)
			fmt.Fprintln(w)

		case i < len(expected):
			mismatched++
			exp := expected[i]
			fmt.Fprintf(w, "MISSING Step %d: %s (expected %d packets)\n\n", exp.Index, exp.Name, len(exp.Packets))

		default:
			mismatched++
			act := actual[i]
			fmt.Fprintf(w, "EXTRA Step %d: %s (got %d packets)\n\n", act.Index, act.Name, len(act.Packets))
		}
	}

	if mismatched == 0 {
		fmt.Fprintf(w, "OK: All %d steps match\n", len(actual))
	} else {
		fmt.Fprintf(w, "FAIL: %d of %d steps differ\n", mismatched, maxSteps)
	}
	return mismatched
}

func comparePackets(w io.Writer, expected, actual []string) {
	maxPackets := max(len(expected), len(actual))
	for i := 0; i < maxPackets; i++ {
		switch {
		case i < len(expected) && i < len(actual):
			if expected[i] == actual[i] {
				continue
			}
			fmt.Fprintf(w, "    Packet %d differs:\n", i+1)
			fmt.Fprintf(w, "      Expected: %s\n", expected[i])
			fmt.Fprintf(w, "      Actual:   %s\n", actual[i])
		case i < len(expected):
			fmt.Fprintf(w, "    Packet %d missing in actual:\n", i+1)
			fmt.Fprintf(w, "      Expected: %s\n", expected[i])
		default:
			fmt.Fprintf(w, "    Packet %d extra in actual:\n", i+1)
			fmt.Fprintf(w, "      Actual:   %s\n", actual[i])
		}
	}
}
