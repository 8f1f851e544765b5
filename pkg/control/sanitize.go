package control

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
)

// sanitizeCaption keeps inline formatting in titles, comments, footers and
// flash messages and drops everything else.
func sanitizeCaption(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(captionSanitizer().Sanitize(trimmed))
}

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "small", "br", "code", "mark")
		policy.AllowAttrs("class").OnElements("span", "i")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)

		captionPolicy = policy
	})
	return captionPolicy
}
