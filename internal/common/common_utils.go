package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// ParseBoolDefault parses form values such as "true", "1", "on". Blank or unparsable
// input returns def.
func ParseBoolDefault(s string, def bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return def
	case "on", "yes", "y":
		return true
	case "off", "no", "n":
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}
