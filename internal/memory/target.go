package memory

import (
	"strconv"
	"strings"
)

// splitAnnotationTargetLine parses a "path:line" annotation target,
// mirroring internal/search's identical parsing of the same convention.
func splitAnnotationTargetLine(target string) (path string, line int, ok bool) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(target[idx+1:])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return target[:idx], n, true
}
