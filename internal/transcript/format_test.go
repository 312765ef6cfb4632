package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voskhttp/voskhttp/internal/stt"
)

func TestFromResult(t *testing.T) {
	res := &stt.Result{
		Text: "hello world again",
		Segments: []stt.Segment{
			{
				Text: "hello world",
				Words: []stt.Word{
					{Word: "hello", Confidence: 1.0, Start: 0.3, End: 0.8},
					{Word: "world", Confidence: 0.95, Start: 0.9, End: 1.4},
				},
			},
			{Text: ""}, // empty flush
			{
				Text: "again",
				Words: []stt.Word{
					{Word: "again", Confidence: 0.7, Start: 2.0, End: 2.5},
				},
			},
		},
	}

	doc := FromResult(res)

	assert.Equal(t, "2.0", doc.SchemaVersion)
	assert.Equal(t, []string{"hello world", "again"}, doc.Text)
	require.Len(t, doc.Monologues, 2)

	m := doc.Monologues[0]
	assert.Equal(t, "unknown", m.Speaker.ID)
	assert.Nil(t, m.Speaker.Name)
	assert.Equal(t, 0.3, m.Start)
	assert.Equal(t, 1.4, m.End)
	require.Len(t, m.Terms, 2)
	assert.Equal(t, "WORD", m.Terms[0].Type)
	assert.Equal(t, "hello", m.Terms[0].Text)

	assert.Equal(t, "hello world again", doc.PlainText())
}

func TestFromResultTextOnly(t *testing.T) {
	doc := FromResult(&stt.Result{Text: "no timings here"})

	assert.Equal(t, []string{"no timings here"}, doc.Text)
	assert.Empty(t, doc.Monologues)
}

func TestFromResultWordlessSegmentKeepsText(t *testing.T) {
	doc := FromResult(&stt.Result{
		Text: "timed bare",
		Segments: []stt.Segment{
			{Text: "timed", Words: []stt.Word{{Word: "timed", Confidence: 1, Start: 0.1, End: 0.5}}},
			{Text: "bare"},
		},
	})

	assert.Equal(t, []string{"timed", "bare"}, doc.Text)
	assert.Len(t, doc.Monologues, 1)
}

func TestDocumentJSONShape(t *testing.T) {
	doc := FromResult(&stt.Result{})

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	// Empty collections serialize as [], not null.
	assert.JSONEq(t, `{"schemaVersion":"2.0","monologues":[],"text":[]}`, string(data))
}

func TestChunkText(t *testing.T) {
	chunks := ChunkText("First sentence. Second sentence. Third one here.", 35)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, len([]rune(c.Content)), 35)
		assert.NotEmpty(t, c.Content)
	}
}

func TestChunkTextLongRun(t *testing.T) {
	// No sentence boundaries at all, must split on words.
	chunks := ChunkText("one two three four five six seven eight nine ten", 12)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Content)), 12)
	}
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Empty(t, ChunkText("", 100))
	assert.Empty(t, ChunkText("   ", 100))
}
