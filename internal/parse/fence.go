package parse

import "strings"

// stripFence removes a leading fence line (``` or ~~~, optionally followed by a
// language tag) and a trailing closing fence. The text is returned unchanged,
// apart from surrounding whitespace, unless both fences are present.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])

	marker, ok := openingFence(first)
	if !ok || !closingFence(last, marker) {
		return trimmed
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// openingFence reports the fence character of an opening fence line.
func openingFence(line string) (byte, bool) {
	for _, marker := range []byte{'`', '~'} {
		run := fenceRun(line, marker)
		if run < 3 {
			continue
		}
		tag := strings.TrimSpace(line[run:])
		if strings.ContainsAny(tag, " \t`") {
			return 0, false
		}
		return marker, true
	}
	return 0, false
}

func closingFence(line string, marker byte) bool {
	run := fenceRun(line, marker)
	return run >= 3 && run == len(line)
}

func fenceRun(line string, marker byte) int {
	n := 0
	for n < len(line) && line[n] == marker {
		n++
	}
	return n
}
