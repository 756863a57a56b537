package seed

import (
	_ "embed"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the embedded default catalog
func Default() (*model.Catalog, error) {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse embedded catalog")
	}
	return catalog, nil
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*model.Catalog, error) {
	var catalog model.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML catalog")
	}

	if err := catalog.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid catalog")
	}

	return &catalog, nil
}

// LoadFile loads a catalog from a YAML file
func LoadFile(path string) (*model.Catalog, error) {
	if path == "" {
		return nil, goerr.New("catalog file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "catalog file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read catalog file",
			goerr.V("path", path))
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog",
			goerr.V("path", path))
	}

	return catalog, nil
}
