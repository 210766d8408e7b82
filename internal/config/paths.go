package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the resolved application paths
type Paths struct {
	DataDir      string
	ExportsDir   string
	LogsDir      string
	DatabaseFile string
}

// ResolvePaths turns the configured paths into absolute paths rooted at base.
// Absolute configured paths are kept as-is.
func (c *Config) ResolvePaths(base string) *Paths {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		DataDir:      abs(c.Paths.DataDir),
		ExportsDir:   abs(c.Paths.ExportsDir),
		LogsDir:      abs(c.Paths.LogsDir),
		DatabaseFile: abs(c.Paths.DatabaseFile),
	}
}

// GetPaths resolves the configured paths against the working directory.
func (c *Config) GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return c.ResolvePaths(wd), nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExportsDir,
		p.LogsDir,
		filepath.Dir(p.DatabaseFile),
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// LogPathResolution logs every resolved path at startup.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Application paths",
		slog.String("data_dir", p.DataDir),
		slog.String("exports_dir", p.ExportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("database_file", p.DatabaseFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
