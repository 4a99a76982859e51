package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first JSON object out of a model response and
// decodes it. Models sometimes wrap their output in markdown fences or
// surrounding prose despite being told not to, so this scans from the
// first '{' to the last '}' before unmarshaling.
//
// ok is false when the text contains no decodable JSON object; the
// caller then hands nothing to the validator, which reports the receipt
// as unusable.
func ExtractJSON(text string) (any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return nil, false
	}
	return v, true
}
