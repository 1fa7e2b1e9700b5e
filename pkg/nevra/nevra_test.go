package nevra

import (
	"testing"

	"github.com/oneconcern/rpmsync/pkg/errors"
	"github.com/oneconcern/rpmsync/pkg/nevra/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, toPin := range []struct {
		input    string
		expected NEVRA
	}{
		{
			input:    "jay-3:3.10-4.fc3.x86_64",
			expected: NEVRA{Name: "jay", Epoch: 3, Version: "3.10", Release: "4.fc3", Arch: "x86_64"},
		},
		{
			input:    "foo-1:2.0-1.el8.x86_64",
			expected: NEVRA{Name: "foo", Epoch: 1, Version: "2.0", Release: "1.el8", Arch: "x86_64"},
		},
		{
			input:    "perl-Digest-SHA-1:6.02-1.module+el8+2090+ec9d1b1a.noarch",
			expected: NEVRA{Name: "perl-Digest-SHA", Epoch: 1, Version: "6.02", Release: "1.module+el8+2090+ec9d1b1a", Arch: "noarch"},
		},
		{
			input:    "bear-4.1-1.noarch",
			expected: NEVRA{Name: "bear", Epoch: 0, Version: "4.1", Release: "1", Arch: "noarch"},
		},
	} {
		fixture := toPin
		t.Run(fixture.input, func(t *testing.T) {
			n, err := Parse(fixture.input)
			require.NoError(t, err)
			assert.Equal(t, fixture.expected, n)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"noarch",
		"name.x86_64",
		"name-1.x86_64",
		"name-1:2:3-1.x86_64",
		"name-x:1.0-1.x86_64",
		"-1.0-1.x86_64",
	} {
		_, err := Parse(input)
		require.Errorf(t, err, "expected %q to fail", input)
		assert.True(t, errors.Is(err, status.ErrInvalidNEVRA), "unexpected error %v", err)
	}
}

func TestRender(t *testing.T) {
	n, err := Parse("bear-4.1-1.noarch")
	require.NoError(t, err)
	assert.Equal(t, "bear-0:4.1-1.noarch", n.String())
	assert.Equal(t, "bear-4.1-1.noarch", n.NVRA())

	name, version, err := PackageVersion("foo-1:2.0-1.el8.x86_64")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Equal(t, "2.0", version)
}
