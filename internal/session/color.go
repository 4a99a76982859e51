package session

import "fmt"

// nameColor derives a stable, vibrant avatar color from a participant
// name. The hash feeds an HSL hue with fixed saturation and lightness so
// every color stays readable.
func nameColor(name string) string {
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash << 5) - hash
	}
	hue := hash % 360
	if hue < 0 {
		hue = -hue
	}
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hue)
}
