package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// initConfig decodes file into target, picking the format by suffix.
func initConfig(file *os.File, target any) error {
	switch ext := filepath.Ext(file.Name()); ext {
	case ".toml":
		_, err := toml.NewDecoder(file).Decode(target)
		return err
	case ".yaml", ".yml":
		return yaml.NewDecoder(file).Decode(target)
	case ".json":
		return json.NewDecoder(file).Decode(target)
	default:
		return xerrors.Errorf("unknown config format %q of %s: use .toml, .yaml or .json", ext, file.Name())
	}
}
