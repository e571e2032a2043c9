package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Templates use {L} for the label token. All are matched case-insensitively.
var hiddenAnswerTemplates = []string{
	`answer[:\s]+is[:\s]+{L}`,
	`answer[:\s]+{L}`,
	`correct[:\s]+answer[:\s]+is[:\s]+{L}`,
	`option[:\s]+{L}`,
	`\({L}\)[:\s]+is[:\s]+correct`,
	`{L}\)`,
}

var explicitAnswerTemplates = []string{
	`answer[:\s]+is[:\s]+{L}`,
	`correct[:\s]+answer[:\s]+is[:\s]+{L}`,
	`option[:\s]+{L}[:\s]+is`,
}

// labelPatterns holds the compiled templates for one label.
type labelPatterns struct {
	hidden   []*regexp.Regexp
	explicit []*regexp.Regexp
}

func compileLabelPatterns(label string) labelPatterns {
	token := labelToken(label)
	return labelPatterns{
		hidden:   compileTemplates(hiddenAnswerTemplates, token),
		explicit: compileTemplates(explicitAnswerTemplates, token),
	}
}

func compileTemplates(templates []string, token string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, regexp.MustCompile(`(?i)`+strings.ReplaceAll(tmpl, "{L}", token)))
	}
	return out
}

// labelToken quotes a label and pins word boundaries on its word-character
// edges, so "A" does not match inside "all" or "data)".
func labelToken(label string) string {
	token := regexp.QuoteMeta(label)
	first, _ := utf8.DecodeRuneInString(label)
	last, _ := utf8.DecodeLastRuneInString(label)
	if isWordRune(first) {
		token = `\b` + token
	}
	if isWordRune(last) {
		token += `\b`
	}
	return token
}

// isWordRune matches the ASCII word class used by RE2's \b.
func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
