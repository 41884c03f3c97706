package service

import (
	"errors"
	"fmt"
	"strings"
)

// JurisdictionRisk classifies a sender country.
type JurisdictionRisk int

const (
	JurisdictionStandard JurisdictionRisk = iota
	JurisdictionMedium
	JurisdictionHigh
)

// JurisdictionTable lists the country codes that raise jurisdiction risk.
// It is configuration data so tests and deployments can swap in their own sets.
type JurisdictionTable struct {
	High   []string `json:"high" yaml:"high"`
	Medium []string `json:"medium" yaml:"medium"`
}

// DefaultJurisdictions returns the table shipped with the demo.
func DefaultJurisdictions() JurisdictionTable {
	return JurisdictionTable{
		High:   []string{"NG", "RU"},
		Medium: []string{"CN"},
	}
}

// Validate rejects blank codes and codes listed in both sets.
func (t JurisdictionTable) Validate() error {
	var errs []error
	high := make(map[string]bool, len(t.High))
	for _, code := range t.High {
		c := normalizeCountry(code)
		if c == "" {
			errs = append(errs, errors.New("high-risk set contains a blank country code"))
			continue
		}
		high[c] = true
	}
	for _, code := range t.Medium {
		c := normalizeCountry(code)
		if c == "" {
			errs = append(errs, errors.New("medium-risk set contains a blank country code"))
			continue
		}
		if high[c] {
			errs = append(errs, fmt.Errorf("country %s is listed as both high and medium risk", c))
		}
	}
	return errors.Join(errs...)
}

// jurisdictionIndex is the lookup form of a JurisdictionTable.
type jurisdictionIndex struct {
	high   map[string]struct{}
	medium map[string]struct{}
}

func newJurisdictionIndex(t JurisdictionTable) jurisdictionIndex {
	idx := jurisdictionIndex{
		high:   make(map[string]struct{}, len(t.High)),
		medium: make(map[string]struct{}, len(t.Medium)),
	}
	for _, code := range t.High {
		idx.high[normalizeCountry(code)] = struct{}{}
	}
	for _, code := range t.Medium {
		idx.medium[normalizeCountry(code)] = struct{}{}
	}
	return idx
}

// classify checks the high set first, so a code in both sets is high.
func (idx jurisdictionIndex) classify(country string) JurisdictionRisk {
	c := normalizeCountry(country)
	if _, ok := idx.high[c]; ok {
		return JurisdictionHigh
	}
	if _, ok := idx.medium[c]; ok {
		return JurisdictionMedium
	}
	return JurisdictionStandard
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
