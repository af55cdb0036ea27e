// Package distro classifies the host into a supported distribution family.
package distro

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/gnoppix/block-ip/src/internal/log"
	"github.com/gnoppix/block-ip/src/internal/utils"
)

// DefaultOSReleasePath is the identification file read by Detect.
const DefaultOSReleasePath = "/etc/os-release"

// Family is a distribution family with its own package manager and persistence mechanism.
type Family int

const (
	Unknown Family = iota
	Debian
	Arch
)

func (f Family) String() string {
	switch f {
	case Debian:
		return "debian"
	case Arch:
		return "arch"
	default:
		return "unknown"
	}
}

// patterns are checked against every line in order; the first hit decides.
var patterns = []struct {
	token  string
	family Family
}{
	{"ID=debian", Debian},
	{"ID=ubuntu", Debian},
	{"ID=arch", Arch},
}

// Detect reads the identification file at path and classifies the host.
// A missing or unreadable file yields Unknown.
func Detect(path string) Family {
	file, err := os.Open(path)
	if err != nil {
		log.Debugf("Failed to open %s: %v", path, err)
		return Unknown
	}
	defer utils.CloseOrWarn(file)

	family := Parse(file)
	log.Debugf("Detected distribution family from %s: %s", path, family)
	return family
}

// Parse scans os-release formatted content line by line.
func Parse(r io.Reader) Family {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		for _, p := range patterns {
			if strings.Contains(line, p.token) {
				return p.family
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debugf("Failed to read identification file: %v", err)
	}
	return Unknown
}
