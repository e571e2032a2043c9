package record

import (
	"html"
	"strconv"
	"strings"
)

// Extractor parses report documents with a fixed pattern table.
type Extractor struct {
	format Format
}

// NewExtractor returns an extractor for the given format.
func NewExtractor(format Format) *Extractor {
	return &Extractor{format: format}
}

// Format returns the pattern table in use.
func (e *Extractor) Format() Format {
	return e.format
}

// Extract splits doc into sections and parses every data section in document
// order. Sections without the correct-answer marker are skipped. A truncated
// or malformed document yields whatever records could be recovered.
func (e *Extractor) Extract(doc string) []Record {
	sections := strings.Split(doc, e.format.SectionDelimiter)
	records := make([]Record, 0, len(sections))
	for _, section := range sections {
		if !strings.Contains(section, e.format.SectionMarker) {
			continue
		}
		rec := e.parseSection(section)
		rec.Index = len(records)
		records = append(records, rec)
	}
	return records
}

// ExtractResultSet parses doc and wraps the records as one model's result set.
func (e *Extractor) ExtractResultSet(modelID, doc string, summary map[string]any) ResultSet {
	set := NewResultSet(modelID, e.Extract(doc))
	set.Summary = summary
	return set
}

func (e *Extractor) parseSection(section string) Record {
	var rec Record
	blocks := e.format.block.FindAllStringSubmatch(section, 2)
	if len(blocks) > 0 {
		rec.Prompt = html.UnescapeString(blocks[0][1])
	}
	if len(blocks) > 1 {
		rec.Response = html.UnescapeString(blocks[1][1])
	}

	if match := e.format.correct.FindStringSubmatch(section); match != nil {
		rec.CorrectAnswer = match[1]
	}
	if match := e.format.extracted.FindStringSubmatch(section); match != nil && match[1] != e.format.NoAnswerText {
		rec.ExtractedAnswer = match[1]
	}
	if match := e.format.score.FindStringSubmatch(section); match != nil {
		if score, err := strconv.ParseFloat(match[1], 64); err == nil {
			rec.Score = score
		}
	}
	return rec
}
