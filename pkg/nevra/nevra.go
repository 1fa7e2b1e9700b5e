// Package nevra splits RPM package identifiers.
//
// A NEVRA reads name-[epoch:]version-release.arch, for example
// "jay-3:3.10-4.fc3.x86_64". Names may contain dashes, so the string is
// parsed from the right: the last dot starts the arch, the last dash the
// release, the dash before it the version.
package nevra

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oneconcern/rpmsync/pkg/nevra/status"
)

// NEVRA is a parsed package identifier
type NEVRA struct {
	Name    string `json:"name" yaml:"name"`
	Epoch   int    `json:"epoch" yaml:"epoch"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// String renders the NEVRA with an explicit epoch
func (n NEVRA) String() string {
	s := fmt.Sprintf("%s-%d:%s-%s", n.Name, n.Epoch, n.Version, n.Release)
	if n.Arch != "" {
		s += "." + n.Arch
	}
	return s
}

// NVRA renders the identifier without epoch
func (n NEVRA) NVRA() string {
	s := n.Name + "-" + n.Version + "-" + n.Release
	if n.Arch != "" {
		s += "." + n.Arch
	}
	return s
}

// Parse a full name-[epoch:]version-release.arch string
func Parse(name string) (NEVRA, error) {
	archDot := strings.LastIndexByte(name, '.')
	if archDot < 0 {
		return NEVRA{}, status.ErrInvalidNEVRA.Wrapf("%q has no arch", name)
	}
	n, err := ParseNEVR(name[:archDot])
	if err != nil {
		return NEVRA{}, status.ErrInvalidNEVRA.Wrap(err)
	}
	n.Arch = name[archDot+1:]
	return n, nil
}

// ParseNEVR parses a name-[epoch:]version-release string
func ParseNEVR(name string) (NEVRA, error) {
	if strings.Count(name, "-") < 2 {
		return NEVRA{}, status.ErrInvalidNEVR.Wrapf("%q lacks name, version or release", name)
	}

	releaseDash := strings.LastIndexByte(name, '-')
	release := name[releaseDash+1:]
	nameEpochVersion := name[:releaseDash]
	nameDash := strings.LastIndexByte(nameEpochVersion, '-')
	packageName := nameEpochVersion[:nameDash]

	var (
		epoch   int
		version string
	)
	epochVersion := strings.Split(nameEpochVersion[nameDash+1:], ":")
	switch len(epochVersion) {
	case 1:
		version = epochVersion[0]
	case 2:
		e, err := strconv.Atoi(epochVersion[0])
		if err != nil {
			return NEVRA{}, status.ErrInvalidNEVR.Wrapf("%q has a non-numeric epoch", name)
		}
		epoch = e
		version = epochVersion[1]
	default:
		return NEVRA{}, status.ErrInvalidNEVR.Wrapf("%q has more than one epoch separator", name)
	}

	if packageName == "" || version == "" || release == "" {
		return NEVRA{}, status.ErrInvalidNEVR.Wrapf("%q has an empty name, version or release", name)
	}

	return NEVRA{
		Name:    packageName,
		Epoch:   epoch,
		Version: version,
		Release: release,
	}, nil
}

// PackageVersion extracts the (name, version) pair used to match module
// artifacts against known packages.
func PackageVersion(name string) (string, string, error) {
	n, err := Parse(name)
	if err != nil {
		return "", "", err
	}
	return n.Name, n.Version, nil
}
