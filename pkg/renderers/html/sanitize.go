package html

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicy     *bluemonday.Policy
	descriptionPolicyOnce sync.Once
)

// Section descriptions come from the backend and may carry light markup.
func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("p", "br", "b", "strong", "i", "em", "ul", "ol", "li", "code")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

// SanitizeDescription strips everything but basic formatting from s.
func SanitizeDescription(s string) string {
	return descriptionSanitizer().Sanitize(s)
}
