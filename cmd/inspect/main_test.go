package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	impactCSV = `name,recclass,year,reclat,reclong
a,L6,01/01/1990 12:00:00 AM,10,20
b,L6,1990,11,21
c,H5,1985,1,2
`
	yieldCSV = `Entity,Year,Wheat yield
L6,1989,1.5
L6,1990,1.0
L6,1990,2.5
France,1985,5.25
`
)

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	impacts := filepath.Join(dir, "impacts.csv")
	yields := filepath.Join(dir, "yields.csv")
	require.NoError(t, os.WriteFile(impacts, []byte(impactCSV), 0o600))
	require.NoError(t, os.WriteFile(yields, []byte(yieldCSV), 0o600))
	return impacts, yields
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInspect_View(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "--impacts", impacts, "--yields", yields, "--key", "L6", "--year", "1990")
	require.NoError(t, err)

	assert.Contains(t, out, "L6, 1980-1990")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "Yield vs impacts")
	assert.Contains(t, out, "min 1.5  max 2.5  avg 2.00")
	assert.Contains(t, out, "min 2  max 2  avg 2.00")
}

func TestInspect_DefaultYear(t *testing.T) {
	impacts, yields := writeFixtures(t)
	t.Setenv("DEFAULT_YEAR", "1985")

	out, err := run(t, "--impacts", impacts, "--yields", yields, "--key", "France")
	require.NoError(t, err)
	assert.Contains(t, out, "France, 1975-1985")
	assert.Contains(t, out, "avg 5.25")
}

func TestInspect_UnknownKeyIsZeroed(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "--impacts", impacts, "--yields", yields, "--key", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, "no yield data")
	assert.Contains(t, out, "min 0  max 0  avg 0.00")
}

func TestInspect_YearOutOfRange(t *testing.T) {
	impacts, yields := writeFixtures(t)

	_, err := run(t, "--impacts", impacts, "--yields", yields, "--key", "L6", "--year", "9223372036854775807")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = run(t, "markers", "--year", "-9223372036854775808", "--impacts", impacts, "--yields", yields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestInspect_RequiresKey(t *testing.T) {
	impacts, yields := writeFixtures(t)

	_, err := run(t, "--impacts", impacts, "--yields", yields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--key")
}

func TestInspect_MissingSource(t *testing.T) {
	_, yields := writeFixtures(t)

	_, err := run(t, "--impacts", filepath.Join(t.TempDir(), "missing.csv"), "--yields", yields, "--key", "L6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read impact rows")
}

func TestKeys(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "keys", "--impacts", impacts, "--yields", yields)
	require.NoError(t, err)
	assert.Contains(t, out, "France\nL6\n")
	assert.Contains(t, out, "2 keys")
	assert.NotContains(t, out, "H5")
}

func TestKeys_All(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "keys", "--all", "--impacts", impacts, "--yields", yields)
	require.NoError(t, err)
	assert.Contains(t, out, "France\nH5\nL6\n")
	assert.Contains(t, out, "3 keys")
}

func TestMarkers(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "markers", "--year", "1990", "--impacts", impacts, "--yields", yields)
	require.NoError(t, err)
	assert.Contains(t, out, "Impacts in 1990")
	assert.Contains(t, out, "10.0000")
	assert.NotContains(t, out, "H5")
}

func TestMarkers_NoneInYear(t *testing.T) {
	impacts, yields := writeFixtures(t)

	out, err := run(t, "markers", "--year", "1700", "--impacts", impacts, "--yields", yields)
	require.NoError(t, err)
	assert.Contains(t, out, "none")
}
