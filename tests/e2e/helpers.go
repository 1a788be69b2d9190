package main

import (
	"fmt"
	"os/exec"
)

// findSurroundctlBinary finds the surroundctl binary under test.
// It relies on the Makefile setting the PATH to include the local ./bin directory.
func findSurroundctlBinary() (string, error) {
	path, err := exec.LookPath("surroundctl")
	if err != nil {
		return "", fmt.Errorf("could not find 'surroundctl' binary in PATH. Build it into ./bin and add that directory to PATH")
	}
	return path, nil
}
