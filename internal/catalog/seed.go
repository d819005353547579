package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/package-service/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Products []domain.Product `yaml:"products"`
}

// LoadSeed reads products from a YAML file, or the built-in seed when path is empty.
func LoadSeed(path string) ([]domain.Product, error) {
	data := defaultSeed
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog seed: %w", err)
		}
		data = raw
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML product list.
func ParseSeed(data []byte) ([]domain.Product, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	for i, p := range file.Products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("catalog seed entry %d: id and name required", i)
		}
		switch p.Type {
		case domain.ProductTypeVAS, domain.ProductTypeOTT, domain.ProductTypeTelco:
		default:
			return nil, fmt.Errorf("catalog seed entry %s: unknown type %q", p.ID, p.Type)
		}
		switch p.Status {
		case domain.ProductStatusActive, domain.ProductStatusInactive:
		default:
			return nil, fmt.Errorf("catalog seed entry %s: unknown status %q", p.ID, p.Status)
		}
	}
	return file.Products, nil
}
