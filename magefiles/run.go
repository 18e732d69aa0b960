//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the viewer. Set MESHVIEW_CONFIG to use a configuration file other than meshview.toml.
func (Run) Engine() error {
	config := os.Getenv("MESHVIEW_CONFIG")
	if config == "" {
		config = "meshview.toml"
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-config", config), withStream()); err != nil {
		return err
	}
	return nil
}
