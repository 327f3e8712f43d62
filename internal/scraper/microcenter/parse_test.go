package microcenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGPUDetails(t *testing.T) {
	t.Run("detects manufacturer and model keyword", func(t *testing.T) {
		d := ParseGPUDetails("MSI NVIDIA GeForce RTX 4090 Gaming X Trio 24GB GDDR6X", "MSI")
		assert.Equal(t, "MSI", d.Brand)
		assert.Equal(t, "NVIDIA", d.Manufacturer)
		assert.Equal(t, "GeForce RTX 4090", d.ModelName)
	})

	t.Run("Ti variant keeps the suffix word", func(t *testing.T) {
		d := ParseGPUDetails("ASUS TUF NVIDIA GeForce RTX 4070 Ti 12GB GDDR6X", "ASUS")
		assert.Equal(t, "GeForce RTX 4070 Ti", d.ModelName)
	})

	t.Run("XT variant keeps the suffix word", func(t *testing.T) {
		d := ParseGPUDetails("PowerColor AMD Radeon RX 7900 XT Hellhound 20GB", "PowerColor")
		assert.Equal(t, "AMD", d.Manufacturer)
		assert.Equal(t, "Radeon RX 7900 XT", d.ModelName)
	})

	t.Run("intel arc listings", func(t *testing.T) {
		d := ParseGPUDetails("ASRock Intel Arc A770 Phantom Gaming 16GB", "ASRock")
		assert.Equal(t, "Intel", d.Manufacturer)
		assert.Equal(t, "Intel Arc A770", d.ModelName)
	})

	t.Run("no keyword keeps the full name", func(t *testing.T) {
		d := ParseGPUDetails("Sparkle Arc A380 Genie 6GB", "Sparkle")
		assert.Equal(t, "Unknown", d.Manufacturer)
		assert.Equal(t, "Sparkle Arc A380 Genie 6GB", d.ModelName)
	})

	t.Run("overlong name without keyword gets a short prefix", func(t *testing.T) {
		long := "EVGA Hybrid Gaming Edition Water Cooled Graphics Card With Extra Long Marketing Name Segment And More Words"
		d := ParseGPUDetails(long, "EVGA")
		assert.LessOrEqual(t, len(d.ModelName), 100)
		assert.Equal(t, "Hybrid Gaming Edition Water", d.ModelName)
	})

	t.Run("model name is always capped", func(t *testing.T) {
		long := "GeForce RTX " + strings.Repeat("X", 150)
		d := ParseGPUDetails(long, "Unknown")
		assert.LessOrEqual(t, len(d.ModelName), 100)
	})
}
