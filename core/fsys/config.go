package fsys

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the default data directory below XDG_DATA_HOME.
const AppName = "area-reconciler"

const (
	BackendLocal  = "local"
	BackendObject = "object"
)

// Config holds configuration for the file system backend.
type Config struct {
	// Backend selects where files live: "local" or "object".
	Backend string `mapstructure:"backend" default:"local" validate:"oneof=local object"`
	// Root is the base directory (local) or key prefix (object).
	// An empty local root resolves to $XDG_DATA_HOME/area-reconciler.
	Root string `mapstructure:"root" default:""`
	// AreasDir holds relations.yaml and the relation-<name>.yaml documents.
	AreasDir string `mapstructure:"areas_dir" default:"data"`
	// WorkDir holds extract files and import stamps.
	WorkDir string `mapstructure:"work_dir" default:"workdir"`
	// CacheDir holds cached report artifacts.
	CacheDir string `mapstructure:"cache_dir" default:"workdir/cache"`
}

// DataRoot returns the configured local root or the XDG default.
func (c Config) DataRoot() string {
	if c.Root != "" {
		return c.Root
	}
	return filepath.Join(xdg.DataHome, AppName)
}
