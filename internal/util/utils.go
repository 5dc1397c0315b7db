package util

import (
	"bytes"
	"fmt"
	"strings"
)

// GetContextLines formats the source around errorLine: up to two preceding
// lines and the offending line marked with an arrow. Lines are 1-based; an
// out of range line yields "".
func GetContextLines(src string, errorLine int) string {
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}

	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	var result bytes.Buffer
	for i := startLine; i <= errorLine; i++ {
		if i == errorLine {
			result.WriteString(fmt.Sprintf("  >  %3d | %s\n", i, lines[i-1]))
		} else {
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, lines[i-1]))
		}
	}
	return result.String()
}
