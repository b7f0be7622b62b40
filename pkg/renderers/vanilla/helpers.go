package vanilla

import (
	"math"
	"strings"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fd-" + trimmed
}

func errorID(name string) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-error"
}

// roundPercent rounds half away from zero, matching the label shown to users.
func roundPercent(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	return int(math.Round(value))
}

func clampPercent(value int) int {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}

func joinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
