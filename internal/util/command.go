package util

import "os/exec"

var lookPath = exec.LookPath

// HasCommand reports whether name resolves to an executable in PATH.
func HasCommand(name string) bool {
	if name == "" {
		return false
	}
	_, err := lookPath(name)
	return err == nil
}
