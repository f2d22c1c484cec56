package checks

import (
	"fmt"

	"loan-sync/core/registry"

	"gorm.io/gorm"
)

// RegistryReport is the result of a registry schema check.
type RegistryReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
	Errors         []string `json:"errors"`
}

// CheckRegistry verifies that the registry table has every expected column.
func CheckRegistry(db *gorm.DB) (*RegistryReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &RegistryReport{
		Table:          registry.TableName,
		Matched:        true,
		MissingColumns: []string{},
		Status:         "ok",
		Errors:         []string{},
	}

	missing, err := registry.CheckSchema(db)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", registry.TableName, err))
		report.Matched = false
		report.Status = "error"
		return report, nil
	}
	if len(missing) > 0 {
		report.MissingColumns = missing
		report.Matched = false
		report.Status = "error"
	}
	return report, nil
}
