package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/google/go-jsonnet"

	"github.com/appendlog/pageblob/pkg/pageblob/util"
)

// LoadFromFile reads a Jsonnet file, evaluates it and unmarshals the
// resulting JSON into a Settings value.
//
// A Jsonnet VM is created with every environment variable of the
// current process exposed through std.extVar(), the snippet is
// evaluated, and the result is unmarshalled with plain encoding/json
// rather than protojson, since this settings record has no
// protoc-generated counterpart (see DESIGN.md).
func LoadFromFile(path string) (Settings, error) {
	var jsonnetInput []byte
	var err error
	if path == "-" {
		jsonnetInput, err = io.ReadAll(os.Stdin)
	} else {
		jsonnetInput, err = os.ReadFile(path)
	}
	if err != nil {
		return Settings{}, util.StatusWrapf(err, "Failed to read file contents")
	}

	vm := jsonnet.MakeVM()
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			vm.ExtVar(parts[0], parts[1])
		}
	}

	jsonnetOutput, err := vm.EvaluateSnippet(path, string(jsonnetInput))
	if err != nil {
		return Settings{}, util.StatusWrapf(err, "Failed to evaluate configuration")
	}

	var settings Settings
	if err := json.Unmarshal([]byte(jsonnetOutput), &settings); err != nil {
		return Settings{}, util.StatusWrap(err, "Failed to unmarshal configuration")
	}
	return settings, nil
}
