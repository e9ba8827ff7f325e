package source

import (
	"os"
	"strings"
	"time"

	fileio "subseek/internal/io"
)

// Load reads a whole subtitle file and returns its lines together with the
// file's modification time, the version token used for cache staleness.
// Both \n and \r\n separators produce the same line sequence; a final
// newline does not yield a trailing empty line.
func Load(path string) ([]string, time.Time, error) {
	file, err := fileio.OpenMapped(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer file.Close()

	content, err := file.ReadAll()
	if err != nil {
		return nil, time.Time{}, err
	}

	return splitLines(content), file.ModTime(), nil
}

// ModTime stats the file for its current version token
func ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	// A trailing newline terminates the last line rather than opening an
	// empty one.
	if content[len(content)-1] == '\n' {
		content = content[:len(content)-1]
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
