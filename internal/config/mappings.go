package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"catalog-service/internal/importer"
)

type mappingEntry struct {
	Name       string            `mapstructure:"name"`
	CountField string            `mapstructure:"countField"`
	Columns    map[string]string `mapstructure:"columns"`
}

// LoadMappings reads extra column mappings from a YAML file and registers them.
// An empty path is a no-op. Field keys are matched case-insensitively since
// viper lower-cases map keys.
//
//	mappings:
//	  - name: supplier-x
//	    countField: stockIndicator
//	    columns:
//	      articleNumber: Art.-Nr.
//	      productName: Bezeichnung
//	      price: EK netto
func LoadMappings(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read mappings file %s: %w", path, err)
	}

	var entries []mappingEntry
	if err := v.UnmarshalKey("mappings", &entries); err != nil {
		return nil, fmt.Errorf("failed to parse mappings file %s: %w", path, err)
	}

	var names []string
	for _, entry := range entries {
		mapping, err := toColumnMapping(entry)
		if err != nil {
			return names, err
		}
		if err := importer.Register(mapping); err != nil {
			return names, fmt.Errorf("mapping %q: %w", entry.Name, err)
		}
		names = append(names, strings.ToLower(mapping.Name))
	}
	return names, nil
}

func toColumnMapping(entry mappingEntry) (importer.ColumnMapping, error) {
	mapping := importer.ColumnMapping{
		Name:    entry.Name,
		Columns: make(map[importer.Field]string, len(entry.Columns)),
	}
	for key, column := range entry.Columns {
		field, ok := lookupField(key)
		if !ok {
			return mapping, fmt.Errorf("mapping %q: unknown field %q", entry.Name, key)
		}
		mapping.Columns[field] = column
	}
	if entry.CountField != "" {
		field, ok := lookupField(entry.CountField)
		if !ok {
			return mapping, fmt.Errorf("mapping %q: unknown count field %q", entry.Name, entry.CountField)
		}
		mapping.CountField = field
	}
	return mapping, nil
}

func lookupField(key string) (importer.Field, bool) {
	for _, f := range importer.KnownFields {
		if strings.EqualFold(string(f), key) {
			return f, true
		}
	}
	return "", false
}
