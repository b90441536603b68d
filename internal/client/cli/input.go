package cli

import (
	"bufio"
	"strings"

	"golang.org/x/term"
)

// Test seams for terminal detection.
var (
	isTerminal = term.IsTerminal
	getSize    = term.GetSize
)

const multilineEnd = "."

// readMultiline collects lines until one that holds only "." and joins them
// with '\n'. ok is false when input ended first; the lines read so far are
// still returned.
func readMultiline(scanner *bufio.Scanner) (text string, ok bool) {
	printlnFn(`(enter your message, finish with a line containing only ".")`)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == multilineEnd {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), false
}
