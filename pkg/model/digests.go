// Copyright © 2018 One Concern

package model

// Checksum types, as found in repository metadata
const (
	ChecksumUnknown = "unknown"
	ChecksumMD5     = "md5"
	ChecksumSHA     = "sha1" // compatibility nickname from original createrepo
	ChecksumSHA1    = "sha1"
	ChecksumSHA224  = "sha224"
	ChecksumSHA256  = "sha256"
	ChecksumSHA384  = "sha384"
	ChecksumSHA512  = "sha512"
)

// ChecksumTypes lists the supported checksum types
var ChecksumTypes = []string{
	ChecksumUnknown,
	ChecksumMD5,
	ChecksumSHA1,
	ChecksumSHA224,
	ChecksumSHA256,
	ChecksumSHA384,
	ChecksumSHA512,
}

// Digests maps a checksum type to a hex digest
type Digests map[string]string

// ValidChecksumType tells if a checksum type is known.
// "sha" is accepted as an alias for sha1.
func ValidChecksumType(t string) bool {
	if t == "sha" {
		return true
	}
	for _, known := range ChecksumTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Strongest returns the strongest digest available
func (d Digests) Strongest() (string, string) {
	for i := len(ChecksumTypes) - 1; i > 0; i-- {
		if v, ok := d[ChecksumTypes[i]]; ok && v != "" {
			return ChecksumTypes[i], v
		}
	}
	return "", ""
}

// Copy the digests
func (d Digests) Copy() Digests {
	if d == nil {
		return nil
	}
	c := make(Digests, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
