package firebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFirebase_CredentialChecks(t *testing.T) {
	dir := t.TempDir()

	_, err := InitFirebase(context.Background(), "")
	assert.ErrorContains(t, err, "not provided")

	_, err = InitFirebase(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "not found")

	_, err = InitFirebase(context.Background(), dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestCheckCredentials_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	assert.NoError(t, checkCredentials(path))
}
