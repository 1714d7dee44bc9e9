// Package storage defines the vault file-system abstraction.
package storage

// Provider is the interface the importer uses for vault file operations.
// All paths are relative to the vault root.
type Provider interface {
	// Exists reports whether a file is present at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent
	// directories as needed. It both creates new files and replaces
	// existing ones.
	Write(path string, content []byte) error
	// Append adds content to the end of the file at path, creating it
	// if absent.
	Append(path string, content []byte) error
	// CreateFolder ensures the directory at path exists.
	CreateFolder(path string) error
	// List returns the relative paths of every .md file under dir.
	List(dir string) ([]string, error)
}
