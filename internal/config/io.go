package config_global

import (
	"os"
	"path/filepath"
)

// FullReader resolves config source names and reads whole sources.
type FullReader interface {
	Normalize(name string) string
	// ReadAll returns nil,nil when source does not exist.
	ReadAll(name string) ([]byte, error)
}

// DirReader reads config files from disk, relative names resolve against Dir.
// ReadConfig fills empty Dir with directory of first source.
type DirReader struct {
	Dir string
}

func NewDirReader() *DirReader { return &DirReader{} }

func (dr *DirReader) Normalize(name string) string {
	if !filepath.IsAbs(name) && dr.Dir != "" {
		name = filepath.Join(dr.Dir, name)
	}
	return filepath.Clean(name)
}

func (dr *DirReader) ReadAll(name string) ([]byte, error) {
	b, err := os.ReadFile(dr.Normalize(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return b, err
}

// MapReader serves inline sources by name.
type MapReader map[string]string

func (mr MapReader) Normalize(name string) string { return filepath.Clean(name) }

func (mr MapReader) ReadAll(name string) ([]byte, error) {
	if s, ok := mr[name]; ok {
		return []byte(s), nil
	}
	return nil, nil
}
