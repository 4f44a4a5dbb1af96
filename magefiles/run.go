//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and starts the terminal game.
func (Run) Play() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(binary, withArgs("play"), withStream())
	return err
}

// Writes the default archipelago to islands.glb.
func (Run) Export() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(binary, withArgs("export", "islands.glb"), withStream())
	return err
}

// Renders one frame to snapshot.png.
func (Run) Snapshot() error {
	mg.Deps(Build.Binary)
	_, err := executeCmd(binary, withArgs("snapshot", "snapshot.png"), withStream())
	return err
}
