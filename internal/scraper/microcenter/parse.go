package microcenter

import (
	"strings"

	"github.com/RileyJaeke/microcenter-scraper/internal/model"
)

// maxModelLen matches the model_name column width.
const maxModelLen = 100

var manufacturers = []string{"NVIDIA", "AMD", "Intel"}

var modelKeywords = []string{"GeForce RTX", "Radeon RX", "Intel Arc"}

// ParseGPUDetails splits a full product name into brand, chip manufacturer
// and a short model name. Listing titles are free-form marketing text, so
// this is heuristic: find a known chip family keyword and take the next few
// words, one extra when a Ti/XT variant suffix is present.
func ParseGPUDetails(fullName, brand string) model.GPUDetails {
	details := model.GPUDetails{
		Brand:        brand,
		Manufacturer: "Unknown",
		ModelName:    fullName,
	}

	lowerName := strings.ToLower(fullName)
	for _, manu := range manufacturers {
		if strings.Contains(lowerName, strings.ToLower(manu)) {
			details.Manufacturer = manu
			break
		}
	}

	foundModel := false
	for _, keyword := range modelKeywords {
		idx := strings.Index(lowerName, strings.ToLower(keyword))
		if idx < 0 {
			continue
		}
		parts := strings.Fields(fullName[idx:])
		take := 3
		if containsWord(parts, "Ti") || containsWord(parts, "XT") {
			take = 4
		}
		if take > len(parts) {
			take = len(parts)
		}
		details.ModelName = strings.Join(parts[:take], " ")
		foundModel = true
		break
	}

	// Very long titles with no recognizable family keyword: strip the brand
	// and manufacturer words and keep a short prefix.
	if !foundModel && len(fullName) > maxModelLen {
		trimmed := strings.TrimSpace(strings.ReplaceAll(fullName, details.Brand, ""))
		trimmed = strings.TrimSpace(strings.ReplaceAll(trimmed, details.Manufacturer, ""))
		parts := strings.Fields(trimmed)
		if len(parts) > 4 {
			parts = parts[:4]
		}
		details.ModelName = strings.Join(parts, " ")
	}

	if len(details.ModelName) > maxModelLen {
		details.ModelName = details.ModelName[:maxModelLen-1]
	}
	return details
}

func containsWord(parts []string, word string) bool {
	for _, p := range parts {
		if p == word {
			return true
		}
	}
	return false
}
