package classify

import (
	"strings"
	"unicode/utf8"

	"evalcmp/internal/record"
)

// Rule is one entry of the ordered decision table. Match returns ok=false to
// defer to the next rule.
type Rule struct {
	Name  string
	Match func(c *Classifier, rec record.Record) (Tag, bool)
}

// defaultRules is evaluated top to bottom; the first match wins and the last
// rule always matches.
var defaultRules = []Rule{
	{Name: "correct", Match: matchCorrect},
	{Name: "wrong_answer", Match: matchWrongAnswer},
	{Name: "repetitive_loop", Match: matchRepetitiveLoop},
	{Name: "truncated", Match: matchTruncated},
	{Name: "hidden_answer", Match: matchHiddenAnswer},
	{Name: "explicit_answer", Match: matchExplicitAnswer},
	{Name: "no_clear_answer", Match: matchNoClearAnswer},
}

// Classifier tags records. It holds no per-record state and is safe for
// concurrent use.
type Classifier struct {
	settings Settings
	labels   []string
	patterns map[string]labelPatterns
	rules    []Rule
}

// New builds a classifier for a label alphabet.
func New(settings Settings, labels []string) *Classifier {
	c := &Classifier{
		settings: settings,
		labels:   append([]string(nil), labels...),
		patterns: make(map[string]labelPatterns, len(labels)),
		rules:    defaultRules,
	}
	for _, label := range labels {
		c.patterns[label] = compileLabelPatterns(label)
	}
	return c
}

// Rules lists the decision table in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		names = append(names, rule.Name)
	}
	return names
}

// Classify returns the tag of the first matching rule.
func (c *Classifier) Classify(rec record.Record) Tag {
	for _, rule := range c.rules {
		if tag, ok := rule.Match(c, rec); ok {
			return tag
		}
	}
	return Tag{Category: CategoryFormatFailure, Subtype: SubtypeNoClearAnswer}
}

// ClassifyAll tags every record of a result set, in record order.
func (c *Classifier) ClassifyAll(set record.ResultSet) []Tag {
	tags := make([]Tag, 0, len(set.Records))
	for _, rec := range set.Records {
		tags = append(tags, c.Classify(rec))
	}
	return tags
}

func matchCorrect(_ *Classifier, rec record.Record) (Tag, bool) {
	if !rec.IsCorrect() {
		return Tag{}, false
	}
	return Tag{Category: CategoryCorrect}, true
}

func matchWrongAnswer(_ *Classifier, rec record.Record) (Tag, bool) {
	if rec.IsFormatFailure() {
		return Tag{}, false
	}
	return Tag{Category: CategoryWrongAnswer, Subtype: wrongAnswerSubtype(rec.ExtractedAnswer, rec.CorrectAnswer)}, true
}

func matchRepetitiveLoop(c *Classifier, rec record.Record) (Tag, bool) {
	if !c.isLooping(rec.Response) {
		return Tag{}, false
	}
	return formatFailure(SubtypeRepetitiveLoop), true
}

func matchTruncated(c *Classifier, rec record.Record) (Tag, bool) {
	if utf8.RuneCountInString(rec.Response) <= c.settings.TruncationLength {
		return Tag{}, false
	}
	if c.hasHiddenAnswer(rec) {
		return formatFailure(SubtypeTruncatedButCorrect), true
	}
	return formatFailure(SubtypeTruncatedNoAnswer), true
}

func matchHiddenAnswer(c *Classifier, rec record.Record) (Tag, bool) {
	if !c.hasHiddenAnswer(rec) {
		return Tag{}, false
	}
	return formatFailure(SubtypeWrongFormatButCorrect), true
}

func matchExplicitAnswer(c *Classifier, rec record.Record) (Tag, bool) {
	for _, label := range c.labels {
		if !matchesAny(c.patterns[label].explicit, rec.Response) {
			continue
		}
		if label == rec.CorrectAnswer {
			return formatFailure(SubtypeWrongFormatButCorrect), true
		}
		return formatFailure(SubtypeWrongFormatWrongAnswer), true
	}
	return Tag{}, false
}

func matchNoClearAnswer(_ *Classifier, _ record.Record) (Tag, bool) {
	return formatFailure(SubtypeNoClearAnswer), true
}

func formatFailure(subtype string) Tag {
	return Tag{Category: CategoryFormatFailure, Subtype: subtype}
}

// hasHiddenAnswer reports whether the correct label is stated in a form the
// scorer did not accept.
func (c *Classifier) hasHiddenAnswer(rec record.Record) bool {
	patterns, ok := c.patterns[rec.CorrectAnswer]
	if !ok {
		return false
	}
	return matchesAny(patterns.hidden, rec.Response)
}

// isLooping checks whether the trailing n-gram of the response tail recurs
// more than the threshold within that tail.
func (c *Classifier) isLooping(response string) bool {
	if utf8.RuneCountInString(response) <= c.settings.MinLoopLength {
		return false
	}
	words := strings.Fields(tail(response, c.settings.TailWindow))
	if len(words) <= c.settings.MinWindowWords || len(words) < c.settings.TailWords {
		return false
	}
	gram := strings.Join(words[len(words)-c.settings.TailWords:], " ")
	window := strings.Join(words, " ")
	return strings.Count(window, gram) > c.settings.RepeatThreshold
}

// tail returns the last n characters of s.
func tail(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-n:])
}
