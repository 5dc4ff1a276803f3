package contract

import (
	"fmt"
	"os"

	"github.com/psymap/psymap/schema"
	"gopkg.in/yaml.v3"
)

// LoadCustomStandard reads a custom standard override file.
//
//	code: MANAGERIAL-2025
//	version: "3"
//	aspects:
//	  integritas: 3.2
//	sub_aspects:
//	  kecerdasan-umum: 2.8
func LoadCustomStandard(path string) (*schema.CustomStandard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom standard: %w", err)
	}
	var std schema.CustomStandard
	if err := yaml.Unmarshal(data, &std); err != nil {
		return nil, fmt.Errorf("failed to parse custom standard %s: %w", path, err)
	}
	if err := schema.ValidateCustomStandard(&std); err != nil {
		return nil, err
	}
	return &std, nil
}
