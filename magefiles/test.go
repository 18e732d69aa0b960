//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests that need no window or GPU.
func (Test) Systems() error {
	if _, err := executeCmd("go", withArgs("test", "./engine/systems/...", "./engine/assets/...", "./engine/config/..."), withStream()); err != nil {
		return err
	}
	return nil
}
