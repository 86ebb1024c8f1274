// Package sanitizer strips a fixed denylist of script vectors from untrusted
// markup (typically inline SVG) before it is rendered as raw HTML.
//
// Only three constructs are removed: <script> elements, on* event-handler
// attributes, and href/xlink:href attributes whose quoted value starts with
// "javascript:". Obfuscated schemes, CSS vectors, unbalanced quotes and
// anything else pass through untouched. Use a policy-based HTML sanitizer when
// the markup comes from an untrusted third party.
package sanitizer

import (
	"html/template"
	"regexp"
)

var (
	scriptElementRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	eventHandlerRe   = regexp.MustCompile(`(?i)on\w+\s*=\s*(?:"[^"]*"|'[^']*')`)
	javascriptHrefRe = regexp.MustCompile(`(?i)(?:xlink:)?href\s*=\s*(?:"javascript:[^"]*"|'javascript:[^']*')`)
)

// Rule is a single markup transformation.
type Rule func(string) string

// StripScripts removes every <script>...</script> element with its content.
// An opening tag without a closing tag is left as is.
func StripScripts(s string) string {
	return scriptElementRe.ReplaceAllString(s, "")
}

// StripEventHandlers removes on<word>="..." and on<word>='...' attributes.
// The closing quote must match the opening one.
func StripEventHandlers(s string) string {
	return eventHandlerRe.ReplaceAllString(s, "")
}

// StripJavaScriptHrefs removes href and xlink:href attributes whose quoted
// value begins with the javascript: scheme.
func StripJavaScriptHrefs(s string) string {
	return javascriptHrefRe.ReplaceAllString(s, "")
}

// Compose chains rules left to right.
func Compose(rules ...Rule) Rule {
	return func(s string) string {
		for _, r := range rules {
			s = r(s)
		}
		return s
	}
}

// denylist is applied in this exact order.
var denylist = Compose(StripScripts, StripEventHandlers, StripJavaScriptHrefs)

// Sanitize applies the denylist to raw. Anything that is not a non-empty
// string yields "".
func Sanitize(raw any) string {
	s, ok := raw.(string)
	if !ok || s == "" {
		return ""
	}
	return SanitizeString(s)
}

// SanitizeString is the typed form of Sanitize.
func SanitizeString(s string) string {
	if s == "" {
		return ""
	}
	// A removal can splice a new match together, e.g. "<scr<script></script>ipt>".
	// Each pass only deletes bytes, so this terminates.
	for {
		next := denylist(s)
		if next == s {
			return s
		}
		s = next
	}
}

// RenderDirective marks a string as already sanitized so the rendering layer
// may insert it without escaping. It serializes as {"__html": "..."}.
type RenderDirective struct {
	HTML template.HTML `json:"__html"`
}

// Wrap packages sanitized markup for raw insertion. It does not sanitize.
func Wrap(safe string) RenderDirective {
	return RenderDirective{HTML: template.HTML(safe)} //nolint:gosec // input is sanitized by the caller
}

// SafeMarkup sanitizes raw and wraps the result.
func SafeMarkup(raw any) RenderDirective {
	return Wrap(Sanitize(raw))
}
