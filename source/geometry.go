package source

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Geometry is measured content geometry as stored in a YAML file:
//
//	contentHeight: 1850.5
//	blocks:
//	  - {top: 0, bottom: 212}
//	  - {top: 230, bottom: 610}
type Geometry struct {
	ContentHeight float64             `yaml:"contentHeight"`
	Blocks        []types.AtomicBlock `yaml:"blocks"`
}

// Validate checks that all offsets are finite and the height is not negative.
func (g *Geometry) Validate() error {
	if math.IsNaN(g.ContentHeight) || math.IsInf(g.ContentHeight, 0) || g.ContentHeight < 0 {
		return fmt.Errorf("contentHeight must be a finite, non-negative number, got %v", g.ContentHeight)
	}

	for i, b := range g.Blocks {
		if math.IsNaN(b.Top) || math.IsNaN(b.Bottom) || math.IsInf(b.Top, 0) || math.IsInf(b.Bottom, 0) {
			return fmt.Errorf("block %d has a non-finite offset", i)
		}
	}

	return nil
}

// LoadGeometry loads geometry from a YAML file.
//
// Parameters:
//   - path: Path to the YAML geometry file
//
// Returns:
//   - *Geometry: Parsed and validated geometry
//   - error: Error if the file cannot be read, parsed or validated
func LoadGeometry(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read geometry file: %w", err)
	}

	return ParseGeometry(data)
}

// ParseGeometry parses and validates YAML geometry.
func ParseGeometry(data []byte) (*Geometry, error) {
	var g Geometry
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse geometry: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid geometry: %w", err)
	}

	return &g, nil
}
