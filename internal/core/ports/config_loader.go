package ports

import "github.com/calder-build/calder/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the project rooted at cwd.
	Load(cwd string) (*domain.ResolvedConfig, error)
}
