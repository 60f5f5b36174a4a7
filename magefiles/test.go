//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) Unit() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./engine/..."), withStream()); err != nil {
		return err
	}
	return nil
}

func (Test) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs vet first, then the unit tests.
func (Test) All() {
	mg.SerialDeps(Test.Vet, Test.Unit)
}
