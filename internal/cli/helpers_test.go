package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const animalSpecs = `package test

class: Animal: {
	properties: {
		name:  "animal"
		sound: "..."
	}
	class_properties: kingdom: "animalia"
	methods: speak: "field:sound"
	initializer: "set:name=0"
}

class: Dog: {
	parent: "Animal"
	properties: sound: "woof"
	methods: describe: "super:Animal.speak"
}
`

// writeFiles creates dir/name for every entry and returns dir.
func writeFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func writeSpecDir(t *testing.T, content string) string {
	t.Helper()
	return writeFiles(t, t.TempDir(), map[string]string{"classes.cue": content})
}
