package cnpconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/cnp/configs"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"cnp.cue",
	".cnp.cue",
}

// configPaths lists existing config files, most specific first.
func configPaths() (paths []string) {
	var dirs []string
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) ConfigsLoader() configs.Loader {
	return configs.NewLoader(configPaths(), schema)
}

// Schema is the closed schema config files are validated against.
func Schema() string {
	return schema
}
