// Package llm calls the vision model that turns receipt photos into
// structured text. The raw response is untrusted; the receipt package is
// responsible for making it safe.
package llm

import "context"

// Client extracts receipt data from an image. Implementations return the
// model's raw text response, which may wrap the JSON payload in prose or
// markdown fences.
type Client interface {
	ParseReceipt(ctx context.Context, image []byte, mimeType string) (string, error)
}
