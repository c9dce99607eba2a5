//go:build linux

// Package linux drives the pointer on Linux desktops through external tools.
package linux

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// DetectDisplayServer detects whether running on Wayland or X11.
func DetectDisplayServer() string {
	return detectDisplayServer(os.Getenv)
}

func detectDisplayServer(getenv func(string) string) string {
	if getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if getenv("XDG_SESSION_TYPE") == DisplayServerWayland {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	if getenv("XDG_SESSION_TYPE") == DisplayServerX11 {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// DistroInfo contains information about the detected Linux distribution.
type DistroInfo struct {
	Name       string
	PkgManager string
}

// DetectDistribution detects the Linux distribution and package manager.
func DetectDistribution() DistroInfo {
	file, err := os.Open("/etc/os-release")
	if err != nil {
		return DistroInfo{Name: "unknown", PkgManager: detectPackageManager()}
	}
	defer file.Close()

	var id, idLike string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "ID="); ok {
			id = strings.Trim(v, "\"")
		}
		if v, ok := strings.CutPrefix(line, "ID_LIKE="); ok {
			idLike = strings.Trim(v, "\"")
		}
	}

	distro := strings.ToLower(id)
	if distro == "" {
		distro = "unknown"
	}
	return DistroInfo{Name: distro, PkgManager: packageManagerFor(distro, idLike)}
}

func packageManagerFor(distro, idLike string) string {
	switch {
	case distro == "debian" || distro == "ubuntu" || distro == "pop" ||
		strings.Contains(idLike, "debian") || strings.Contains(idLike, "ubuntu"):
		return "apt"
	case distro == "fedora" || distro == "rhel" || distro == "centos" ||
		strings.Contains(idLike, "fedora") || strings.Contains(idLike, "rhel"):
		if hasCommand("dnf") {
			return "dnf"
		}
		return "yum"
	case distro == "arch" || distro == "manjaro" || strings.Contains(idLike, "arch"):
		return "pacman"
	case strings.HasPrefix(distro, "opensuse") || strings.Contains(idLike, "suse"):
		return "zypper"
	case distro == "alpine":
		return "apk"
	default:
		return detectPackageManager()
	}
}

func detectPackageManager() string {
	for _, m := range []string{"apt", "dnf", "yum", "pacman", "zypper", "apk"} {
		if hasCommand(m) {
			return m
		}
	}
	return "unknown"
}

// InstallCommand returns a shell command that installs pkg with the
// distribution's package manager, or "" when the manager is unknown.
func InstallCommand(pkg string, distro DistroInfo) string {
	switch distro.PkgManager {
	case "apt":
		return fmt.Sprintf("sudo apt update && sudo apt install %s", pkg)
	case "dnf", "yum":
		return fmt.Sprintf("sudo %s install %s", distro.PkgManager, pkg)
	case "pacman":
		return fmt.Sprintf("sudo pacman -S %s", pkg)
	case "zypper":
		return fmt.Sprintf("sudo zypper install %s", pkg)
	case "apk":
		return fmt.Sprintf("sudo apk add %s", pkg)
	default:
		return ""
	}
}
