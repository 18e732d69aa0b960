package engine

import (
	"github.com/spaghettifunk/meshview/engine/config"
	"github.com/spaghettifunk/meshview/engine/core"
)

/**
 * @brief Reads the application configuration and applies its log level.
 *
 * @param path The TOML file to read. Empty means the built-in defaults.
 */
func LoadApplicationConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	core.SetLogLevel(cfg.LogLevel())
	return cfg, nil
}
