package spreadsheet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"funnel-forecast-service/internal/opportunities/core/domain"
)

// Schema names the header cells of the required columns and maps the stage
// labels used in the workbook onto the canonical stages.
type Schema struct {
	IDColumn          string            `yaml:"id_column"`
	DateColumn        string            `yaml:"date_column"`
	ServiceTypeColumn string            `yaml:"service_type_column"`
	StageColumn       string            `yaml:"stage_column"`
	RevenueColumn     string            `yaml:"revenue_column"`
	StageLabels       map[string]string `yaml:"stage_labels"`
}

func DefaultSchema() Schema {
	return Schema{
		IDColumn:          "Opportunités",
		DateColumn:        "Date",
		ServiceTypeColumn: "Type de service",
		StageColumn:       "Dernière étape en date",
		RevenueColumn:     "Chiffre d'affaire",
		StageLabels: map[string]string{
			"Gagné":       domain.StageWon,
			"Perdu":       domain.StageLost,
			"Proposition": domain.StageProposal,
		},
	}
}

// LoadSchema reads a YAML schema file. Keys left out of the file keep their
// default value; stage_labels, when present, replaces the default mapping.
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read schema file: %w", err)
	}

	var override Schema
	if err := yaml.Unmarshal(data, &override); err != nil {
		return s, fmt.Errorf("parse schema file: %w", err)
	}

	if override.IDColumn != "" {
		s.IDColumn = override.IDColumn
	}
	if override.DateColumn != "" {
		s.DateColumn = override.DateColumn
	}
	if override.ServiceTypeColumn != "" {
		s.ServiceTypeColumn = override.ServiceTypeColumn
	}
	if override.StageColumn != "" {
		s.StageColumn = override.StageColumn
	}
	if override.RevenueColumn != "" {
		s.RevenueColumn = override.RevenueColumn
	}
	if len(override.StageLabels) > 0 {
		s.StageLabels = override.StageLabels
	}
	return s, nil
}

// unmappedStagePrefix marks a source label that is spelled like a canonical
// stage without being mapped onto it.
const unmappedStagePrefix = "unmapped:"

// stage maps a source label onto its canonical stage. Other labels pass
// through, except that only mapped labels may come out as a canonical stage.
func (s Schema) stage(label string) string {
	if canonical, ok := s.StageLabels[label]; ok {
		return canonical
	}
	switch label {
	case domain.StageWon, domain.StageLost, domain.StageProposal:
		return unmappedStagePrefix + label
	}
	return label
}
