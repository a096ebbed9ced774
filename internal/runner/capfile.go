package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Capture files are plain text: one packet per line as space-separated hex
// bytes, steps delimited by "# Step <n>: <label>" comments. Blank lines
// and other comments are ignored.

const stepMarker = "# Step "

// WriteCaptureFile writes the step outputs in capture-file form.
func WriteCaptureFile(w io.Writer, steps []StepOutput) error {
	for _, step := range steps {
		if _, err := fmt.Fprintf(w, "# Step %d: %s\n", step.Index, step.Name); err != nil {
			return err
		}
		for _, pkt := range step.Packets {
			if _, err := fmt.Fprintln(w, pkt); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseCaptureFile reads a capture file back into step outputs. Packet
// lines before any step marker form an implicit step 1.
func ParseCaptureFile(r io.Reader) ([]StepOutput, error) {
	var steps []StepOutput
	var current *StepOutput

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, stepMarker) {
			if current != nil {
				steps = append(steps, *current)
			}
			rest := line[len(stepMarker):]
			index, name := len(steps)+1, "Unknown"
			if colon := strings.Index(rest, ":"); colon >= 0 {
				if n, err := strconv.Atoi(strings.TrimSpace(rest[:colon])); err == nil {
					index = n
				}
				name = strings.TrimSpace(rest[colon+1:])
			}
			current = &StepOutput{Index: index, Name: name}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		if current == nil {
			current = &StepOutput{Index: 1, Name: "Unknown"}
		}
		current.Packets = append(current.Packets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading capture file: %w", err)
	}

	if current != nil {
		steps = append(steps, *current)
	}
	return steps, nil
}
