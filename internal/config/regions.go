package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/market-scout/internal/domain"
	"gopkg.in/yaml.v3"
)

// regionFile is the on-disk shape of REGION_MAP_FILE:
//
//	regions:
//	  Northeast: [Maine, Vermont]
//	  West: [Alaska]
type regionFile struct {
	Regions map[string][]string `yaml:"regions"`
}

// LoadRegions returns the built-in region table when path is empty, otherwise
// the table parsed from the YAML file at path.
func LoadRegions(path string) (domain.RegionTable, error) {
	if path == "" {
		return domain.DefaultRegions, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region map: %w", err)
	}

	var f regionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse region map %s: %w", path, err)
	}
	if len(f.Regions) == 0 {
		return nil, fmt.Errorf("region map %s defines no regions", path)
	}

	table := make(domain.RegionTable, len(f.Regions))
	for name, states := range f.Regions {
		if domain.Region(name) == domain.RegionUnknown {
			return nil, fmt.Errorf("region map %s: %q is reserved", path, name)
		}
		table[domain.Region(name)] = states
	}
	return table, nil
}
