package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ShaKy8/CountdownToRetirement/internal/brand"
	"github.com/ShaKy8/CountdownToRetirement/internal/config"
)

// RunInit writes a starter configuration to path. An existing file is only
// replaced when force is set.
func RunInit(path string, force bool) error {
	if path == "" {
		path = brand.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, config.Render(config.Starter()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	Printer.Printf("Configuration written to %s\n", path)
	return nil
}
