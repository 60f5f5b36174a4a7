//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the demo with the headless backend and config.toml.
func (Run) Demo() error {
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "config.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the demo in a window with the OpenGL backend.
func (Run) Window() error {
	mg.Deps(Build.Demo)
	if _, err := executeCmd("bin/lumen", withArgs("-config", "config.toml", "-backend", "opengl"), withStream()); err != nil {
		return err
	}
	return nil
}
