package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/service"
)

// riskTableFile is the on-disk layout:
//
//	jurisdictions:
//	  high: [NG, RU]
//	  medium: [CN]
type riskTableFile struct {
	Jurisdictions *service.JurisdictionTable `yaml:"jurisdictions"`
}

// LoadRiskTable reads a jurisdiction table from a YAML file. An empty path
// yields the default table.
func LoadRiskTable(path string) (service.JurisdictionTable, error) {
	if path == "" {
		return service.DefaultJurisdictions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return service.JurisdictionTable{}, fmt.Errorf("failed to read risk table: %w", err)
	}
	table, err := ParseRiskTable(data)
	if err != nil {
		return service.JurisdictionTable{}, fmt.Errorf("risk table %s: %w", path, err)
	}
	return table, nil
}

// ParseRiskTable decodes and validates a YAML jurisdiction table. Unknown
// keys are rejected.
func ParseRiskTable(data []byte) (service.JurisdictionTable, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file riskTableFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return service.JurisdictionTable{}, errors.New("risk table is empty")
		}
		return service.JurisdictionTable{}, fmt.Errorf("failed to decode risk table: %w", err)
	}
	if file.Jurisdictions == nil {
		return service.JurisdictionTable{}, errors.New("risk table has no jurisdictions section")
	}
	if err := file.Jurisdictions.Validate(); err != nil {
		return service.JurisdictionTable{}, err
	}
	return *file.Jurisdictions, nil
}
