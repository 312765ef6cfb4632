// Package transcript formats recognizer output into the monologues document
// consumed by downstream editors (schemaVersion 2.0).
package transcript

import (
	"strings"

	"github.com/voskhttp/voskhttp/internal/stt"
)

const SchemaVersion = "2.0"

type Document struct {
	SchemaVersion string      `json:"schemaVersion"`
	Monologues    []Monologue `json:"monologues"`
	Text          []string    `json:"text"`
}

type Speaker struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type Term struct {
	Confidence float64 `json:"confidence"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
}

type Monologue struct {
	Speaker Speaker `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Terms   []Term  `json:"terms"`
}

// FromResult builds a monologues document. Segments without word timings are
// skipped from monologues but still contribute to the text list, matching how
// partial-only utterances are handled.
func FromResult(res *stt.Result) *Document {
	doc := &Document{
		SchemaVersion: SchemaVersion,
		Monologues:    []Monologue{},
		Text:          []string{},
	}

	for _, seg := range res.Segments {
		if seg.Text != "" {
			doc.Text = append(doc.Text, seg.Text)
		}
		if len(seg.Words) == 0 {
			continue
		}

		m := Monologue{
			Speaker: Speaker{ID: "unknown"},
			Start:   seg.Words[0].Start,
			End:     seg.Words[len(seg.Words)-1].End,
			Terms:   make([]Term, 0, len(seg.Words)),
		}
		for _, w := range seg.Words {
			m.Terms = append(m.Terms, Term{
				Confidence: w.Confidence,
				Start:      w.Start,
				End:        w.End,
				Text:       w.Word,
				Type:       "WORD",
			})
		}
		doc.Monologues = append(doc.Monologues, m)
	}

	// Text-only backends produce no per-utterance segments at all.
	if len(doc.Text) == 0 && res.Text != "" {
		doc.Text = append(doc.Text, res.Text)
	}

	return doc
}

// PlainText joins the utterances into a single string.
func (d *Document) PlainText() string {
	return strings.Join(d.Text, " ")
}
