// Package testutil provides shared test helpers for setting up vaults and state databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/pebblesync/internal/ledger"
	"github.com/starford/pebblesync/internal/storage"
)

// TestLedgerStore creates a temporary SQLite state database that is
// automatically cleaned up.
func TestLedgerStore(t *testing.T) *ledger.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "pebblesync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := ledger.OpenStore(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}
