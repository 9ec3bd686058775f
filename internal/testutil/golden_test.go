package testutil

import "testing"

func TestAssertGoldenLines(t *testing.T) {
	AssertGoldenLines(t, "lines", []string{"first", "second"})
}

func TestAssertGolden(t *testing.T) {
	AssertGolden(t, "raw", []byte("no trailing newline"))
}
