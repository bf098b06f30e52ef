package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mini_container/libcontainer/specconv"
	"github.com/opencontainers/runtime-spec/specs-go"
	"github.com/urfave/cli"
)

const specConfig = "config.json"

var specCommand = cli.Command{
	Name:  "spec",
	Usage: "create a new specification file",
	Description: `The spec command creates the new specification file named "` + specConfig + `" for
the bundle. Use the --bundle flag of the run path to launch from it.`,
	Action: func(context *cli.Context) error {
		spec := specconv.Example()
		data, err := json.MarshalIndent(spec, "", "\t")
		if err != nil {
			return err
		}
		if _, err := os.Stat(specConfig); err == nil {
			return fmt.Errorf("file %s exists. Remove it first", specConfig)
		}
		return os.WriteFile(specConfig, data, 0o666)
	},
}

// loadSpec loads and validates the specification from the bundle directory.
func loadSpec(bundle string) (*specs.Spec, error) {
	path := filepath.Join(bundle, specConfig)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("JSON specification file %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	var spec specs.Spec
	if err := json.NewDecoder(f).Decode(&spec); err != nil {
		return nil, err
	}
	if spec.Process == nil {
		return nil, errors.New("config.json has no process field")
	}
	return &spec, nil
}
