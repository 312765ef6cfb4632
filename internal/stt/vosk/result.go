package vosk

import (
	"encoding/json"
	"fmt"
)

// wordResult mirrors one entry of the recognizer's "result" array.
type wordResult struct {
	Conf  float64 `json:"conf"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// recognizerResult mirrors the JSON libvosk returns from Result/FinalResult.
type recognizerResult struct {
	Text   string       `json:"text"`
	Result []wordResult `json:"result"`
}

func parseResult(s string) (*recognizerResult, error) {
	var res recognizerResult
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, fmt.Errorf("parsing recognizer result: %w", err)
	}
	return &res, nil
}
