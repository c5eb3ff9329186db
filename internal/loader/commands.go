package loader

import (
	"fmt"
	"regexp"
	"strings"

	"btt/internal/domain"
)

// Step lines map onto the four driver capabilities. Anything the
// grammar cannot place is rejected at load time so a typo never
// surfaces halfway through a browser session.
var (
	navigatePattern     = regexp.MustCompile(`(?i)^(?:navigate\s+to|go\s+to|open)\s+(\S+)$`)
	discoverPattern     = regexp.MustCompile(`(?i)^discover\s+elements(?:\s+in\s+(.+))?$`)
	typeQuotedPattern   = regexp.MustCompile(`(?i)^(?:type|enter)\s+"([^"]*)"\s+into\s+(.+)$`)
	typeUnquotedPattern = regexp.MustCompile(`(?i)^(?:type|enter)\s+(.+?)\s+into\s+(.+)$`)
	clickPattern        = regexp.MustCompile(`(?i)^click(?:\s+on)?\s+(.+)$`)
)

// ParseCommand normalizes a natural-language step line to a driver command
func ParseCommand(text string) (domain.Command, error) {
	line := strings.TrimSpace(text)

	if m := navigatePattern.FindStringSubmatch(line); m != nil {
		return domain.Command{Action: domain.ActionNavigate, URL: m[1]}, nil
	}
	if m := discoverPattern.FindStringSubmatch(line); m != nil {
		return domain.Command{Action: domain.ActionDiscover, Scope: unquoteTarget(m[1])}, nil
	}
	if m := typeQuotedPattern.FindStringSubmatch(line); m != nil {
		return domain.Command{Action: domain.ActionType, Text: m[1], Target: unquoteTarget(m[2])}, nil
	}
	if m := typeUnquotedPattern.FindStringSubmatch(line); m != nil {
		return domain.Command{Action: domain.ActionType, Text: strings.TrimSpace(m[1]), Target: unquoteTarget(m[2])}, nil
	}
	if m := clickPattern.FindStringSubmatch(line); m != nil {
		return domain.Command{Action: domain.ActionClick, Target: unquoteTarget(m[1])}, nil
	}

	return domain.Command{}, fmt.Errorf("unrecognized step command %q", text)
}

// unquoteTarget strips optional surrounding quotes from a selector so
// both `click #login` and `click "#login"` work
func unquoteTarget(target string) string {
	target = strings.TrimSpace(target)
	if len(target) >= 2 && strings.HasPrefix(target, `"`) && strings.HasSuffix(target, `"`) {
		return target[1 : len(target)-1]
	}
	return target
}
