package app

import (
	"github.com/specialistvlad/spirvbuild/internal/config"
	"github.com/specialistvlad/spirvbuild/internal/docconfig"
	"github.com/specialistvlad/spirvbuild/internal/hcl_adapter"
)

// NewDefaultLoader returns a loader that understands every supported
// manifest format.
func NewDefaultLoader() *config.Dispatcher {
	loader := config.NewDispatcher()
	loader.Register(".hcl", hcl_adapter.NewLoader())
	loader.Register(".toml", docconfig.TOMLLoader{})
	loader.Register(".yaml", docconfig.YAMLLoader{})
	loader.Register(".yml", docconfig.YAMLLoader{})
	return loader
}
