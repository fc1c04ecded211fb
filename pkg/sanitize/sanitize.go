// Package sanitize cleans user-authored values before they reach public
// markup: rich text is filtered through a bluemonday allow-list and URLs are
// screened for script-capable schemes.
package sanitize

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicyOnce sync.Once
	richPolicy     *bluemonday.Policy
)

// RichTextElements lists the elements that survive RichText.
var RichTextElements = []string{"p", "br", "strong", "em", "s", "u", "ul", "ol", "li", "a", "hr"}

// RichText filters markup down to basic inline formatting, lists and links.
// Scripting elements and event handler attributes are always removed.
func RichText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return richTextSanitizer().Sanitize(raw)
}

func richTextSanitizer() *bluemonday.Policy {
	richPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(RichTextElements...)
		policy.AllowAttrs("href", "target", "rel").OnElements("a")
		policy.AllowURLSchemes("http", "https", "mailto", "tel")
		policy.AllowRelativeURLs(true)
		richPolicy = policy
	})
	return richPolicy
}

var blockedSchemes = []string{"javascript:", "vbscript:", "file:"}

// URL screens a URL destined for href, src or action. Script-capable schemes
// collapse to the empty string; data: URLs are only kept for images.
func URL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	probe := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, trimmed))

	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(probe, scheme) {
			return ""
		}
	}
	if strings.HasPrefix(probe, "data:") && !strings.HasPrefix(probe, "data:image/") {
		return ""
	}
	return trimmed
}

// IsURLAttribute reports whether attribute values for key are URLs.
func IsURLAttribute(key string) bool {
	switch strings.ToLower(key) {
	case "href", "src", "action":
		return true
	default:
		return false
	}
}

var (
	emptyParagraph   = regexp.MustCompile(`(?i)^<p>\s*</p>$`)
	lineBreakOnlyPar = regexp.MustCompile(`(?i)^<p>\s*<br\s*/?>\s*</p>$`)
)

// IsEmptyRichText reports whether a rich-text value carries no content: the
// empty string, an empty paragraph, or a paragraph holding a single line
// break.
func IsEmptyRichText(value string) bool {
	return value == "" || emptyParagraph.MatchString(value) || lineBreakOnlyPar.MatchString(value)
}

var safeTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"div", "p", "span", "li", "ul", "ol",
	"section", "article", "aside", "nav", "header", "footer", "main",
	"figure", "figcaption", "blockquote", "pre", "code",
	"table", "thead", "tbody", "tr", "th", "td",
}

// SafeTags returns the structural and text tags an element may be renamed to.
func SafeTags() []string {
	return append([]string(nil), safeTags...)
}

// IsSafeTag reports whether tag is on the rename allow-list.
func IsSafeTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range safeTags {
		if t == tag {
			return true
		}
	}
	return false
}
