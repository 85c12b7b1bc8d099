package parser

import (
	"strings"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

var (
	disturbanceKeywords = []string{"gangguan", "error", "maintenance"}
	openKeywords        = []string{"buka", "open", "normal", "available"}
)

// ClassifyStatus maps free status text to a status kind. Disturbance
// keywords win over open ones. Text matching neither is unknown and treated
// as unavailable.
func ClassifyStatus(text string) models.ProductStatus {
	text = strings.Join(strings.Fields(text), " ")
	lower := strings.ToLower(text)

	status := models.ProductStatus{
		Text:   text,
		Status: models.StatusUnknown,
	}
	switch {
	case containsAny(lower, disturbanceKeywords):
		status.Status = models.StatusDisturbance
	case containsAny(lower, openKeywords):
		status.Status = models.StatusOpen
		status.Available = true
	}
	return status
}

func looksLikeStatus(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, disturbanceKeywords) ||
		containsAny(lower, openKeywords) ||
		strings.Contains(lower, "tutup") ||
		strings.Contains(lower, "close")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
