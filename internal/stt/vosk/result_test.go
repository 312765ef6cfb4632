package vosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult(t *testing.T) {
	res, err := parseResult(`{
		"result": [
			{"conf": 1.0, "start": 0.33, "end": 0.81, "word": "hello"},
			{"conf": 0.97, "start": 0.84, "end": 1.25, "word": "world"}
		],
		"text": "hello world"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "hello world", res.Text)
	require.Len(t, res.Result, 2)
	assert.Equal(t, "hello", res.Result[0].Word)
	assert.Equal(t, 0.33, res.Result[0].Start)
	assert.Equal(t, 0.97, res.Result[1].Conf)
}

func TestParseResultEmpty(t *testing.T) {
	res, err := parseResult(`{"text": ""}`)
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Result)
}

func TestParseResultMalformed(t *testing.T) {
	_, err := parseResult(`{`)
	assert.Error(t, err)
}

func TestAssembleResult(t *testing.T) {
	raw := []recognizerResult{
		{
			Text: "first utterance",
			Result: []wordResult{
				{Conf: 1.0, Start: 0.1, End: 0.5, Word: "first"},
				{Conf: 0.9, Start: 0.6, End: 1.1, Word: "utterance"},
			},
		},
		{Text: ""}, // empty final flush
		{
			Text: "second",
			Result: []wordResult{
				{Conf: 0.8, Start: 2.0, End: 2.4, Word: "second"},
			},
		},
	}

	result := assembleResult(raw)

	assert.Equal(t, "first utterance second", result.Text)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, 0.1, result.Segments[0].Start)
	assert.Equal(t, 1.1, result.Segments[0].End)
	require.Len(t, result.Segments[0].Words, 2)
	assert.Equal(t, "utterance", result.Segments[0].Words[1].Word)
	assert.Equal(t, 2.0, result.Segments[1].Start)
}

func TestAssembleResultTextWithoutWords(t *testing.T) {
	raw := []recognizerResult{
		{
			Text:   "timed utterance",
			Result: []wordResult{{Conf: 1.0, Start: 0.1, End: 0.9, Word: "timed"}},
		},
		{Text: "bare utterance"},
	}

	result := assembleResult(raw)

	assert.Equal(t, "timed utterance bare utterance", result.Text)
	require.Len(t, result.Segments, 2)
	assert.Equal(t, "bare utterance", result.Segments[1].Text)
	assert.Empty(t, result.Segments[1].Words)
}
