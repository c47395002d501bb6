package annotation

import "strings"

// Edit records one substitution made by ApplyCorrections. Begin/End address
// the original text, NewBegin/NewEnd the corrected one.
type Edit struct {
	Begin       int    `json:"begin"`
	End         int    `json:"end"`
	NewBegin    int    `json:"new_begin"`
	NewEnd      int    `json:"new_end"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Picker chooses the replacement for an anomaly; ok=false keeps the original.
type Picker func(a *Anomaly) (c Candidate, ok bool)

// ApplyCorrections substitutes every anomaly with its top candidate.
func (d *Document) ApplyCorrections() (string, []Edit) {
	return d.ApplyCorrectionsFunc(func(a *Anomaly) (Candidate, bool) { return a.Top() })
}

// ApplyCorrectionsFunc rebuilds the text walking anomalies in ascending
// offset order. Gaps are copied verbatim; a candidate replaces the tokens of
// its own span, which may swallow following anomalies. Those are skipped.
func (d *Document) ApplyCorrectionsFunc(pick Picker) (string, []Edit) {
	if len(d.anomalies) == 0 {
		return d.text, nil
	}
	var b strings.Builder
	b.Grow(len(d.text))
	var edits []Edit
	cursor, delta := 0, 0
	for _, a := range d.anomalies {
		if a.Begin < cursor {
			continue
		}
		c, ok := pick(a)
		if !ok {
			continue
		}
		span := c.Span
		if span == (Span{}) || !d.validSpan(span) || span.First != a.Span.First || span.Last < a.Span.Last {
			span = a.Span
		}
		begin, end := d.tokens[span.First].Begin, d.tokens[span.Last].End
		b.WriteString(d.text[cursor:begin])
		b.WriteString(c.Text)
		edits = append(edits, Edit{
			Begin:       begin,
			End:         end,
			NewBegin:    begin + delta,
			NewEnd:      begin + delta + len(c.Text),
			Original:    d.text[begin:end],
			Replacement: c.Text,
		})
		delta += len(c.Text) - (end - begin)
		cursor = end
	}
	b.WriteString(d.text[cursor:])
	return b.String(), edits
}
