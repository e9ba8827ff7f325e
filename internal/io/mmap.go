package io

import (
	"os"
	"time"

	"golang.org/x/exp/mmap"
)

// MappedFile provides memory-mapped read access to a file
type MappedFile struct {
	reader  *mmap.ReaderAt
	size    int64
	modTime time.Time
	path    string
}

// OpenMapped opens a file with memory mapping
func OpenMapped(path string) (*MappedFile, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		reader.Close()
		return nil, err
	}

	return &MappedFile{
		reader:  reader,
		size:    info.Size(),
		modTime: info.ModTime(),
		path:    path,
	}, nil
}

// Size returns the file size
func (m *MappedFile) Size() int64 {
	return m.size
}

// ModTime returns the modification time observed at open
func (m *MappedFile) ModTime() time.Time {
	return m.modTime
}

// Path returns the file path
func (m *MappedFile) Path() string {
	return m.path
}

// Close closes the memory mapping
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// ReadAll reads the whole file
func (m *MappedFile) ReadAll() ([]byte, error) {
	return m.ReadRange(0, m.size)
}

// ReadRange reads bytes from start to end
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	_, err := m.reader.ReadAt(buf, start)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
