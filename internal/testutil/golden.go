// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// NewGoldie returns a goldie instance reading fixtures from testdata/golden
// relative to the calling package. Run tests with -update to rewrite them.
func NewGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// AssertGolden compares data against testdata/golden/<name>.golden.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()
	NewGoldie(t).Assert(t, name, data)
}

// AssertGoldenLines compares lines, each terminated by a newline, against
// testdata/golden/<name>.golden.
func AssertGoldenLines(t *testing.T, name string, lines []string) {
	t.Helper()
	var buf []byte
	for _, l := range lines {
		buf = append(buf, l...)
		buf = append(buf, '\n')
	}
	AssertGolden(t, name, buf)
}
