package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReadVendorList(t *testing.T) {
	csvData := "ID,Vendor,City\n1, Acme Corp ,Pune\n2,GLOBEX,Mumbai\n3,,Delhi\n"

	set, err := ReadVendorList(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, set.Len(), "blank vendor cells are skipped")
	assert.True(t, set.Contains("acme corp"))
	assert.True(t, set.Contains(" Acme Corp "), "lookups normalize the query")
	assert.True(t, set.Contains("globex"))
	assert.False(t, set.Contains("initech"))
}

func TestReadVendorListMissingColumn(t *testing.T) {
	_, err := ReadVendorList(strings.NewReader("Name,City\nAcme,Pune\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: Vendor")
}

func TestLoadVendorListMissingFileFailsOpen(t *testing.T) {
	set, err := LoadVendorList(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains("acme"), "empty set treats every vendor as unknown")
}

func TestLoadVendorListFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendors.csv")
	require.NoError(t, os.WriteFile(path, []byte("Vendor\nAcme\nGlobex\n"), 0644))

	set, err := LoadVendorList(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("acme"))
}
