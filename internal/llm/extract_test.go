package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		check  func(t *testing.T, v any)
	}{
		{
			name:   "bare json object",
			text:   `{"merchantName": "Cafe", "total": 12.5}`,
			wantOK: true,
			check: func(t *testing.T, v any) {
				obj := v.(map[string]any)
				if obj["merchantName"] != "Cafe" {
					t.Errorf("merchantName = %v", obj["merchantName"])
				}
			},
		},
		{
			name:   "markdown fenced json",
			text:   "Here is the receipt data:\n```json\n{\"total\": 5}\n```\nLet me know if you need more.",
			wantOK: true,
			check: func(t *testing.T, v any) {
				obj := v.(map[string]any)
				if obj["total"] != 5.0 {
					t.Errorf("total = %v", obj["total"])
				}
			},
		},
		{
			name:   "nested braces survive",
			text:   `noise {"items": [{"name": "a"}], "meta": {"x": 1}} trailing`,
			wantOK: true,
			check: func(t *testing.T, v any) {
				obj := v.(map[string]any)
				if _, isArr := obj["items"].([]any); !isArr {
					t.Errorf("items = %v", obj["items"])
				}
			},
		},
		{name: "no braces", text: "I could not read the receipt, sorry.", wantOK: false},
		{name: "broken json", text: `{"total": `, wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ExtractJSON(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSON() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && tt.check != nil {
				tt.check(t, v)
			}
		})
	}
}
