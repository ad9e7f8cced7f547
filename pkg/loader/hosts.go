package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadHosts loads one host per line from path. Surrounding whitespace is
// trimmed and blank lines are skipped. A missing file yields an error
// matching os.ErrNotExist.
func ReadHosts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hosts, err := ParseHosts(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return hosts, nil
}

// ParseHosts reads newline-delimited hosts from r.
func ParseHosts(r io.Reader) ([]string, error) {
	var hosts []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		hosts = append(hosts, line)
	}
	return hosts, scanner.Err()
}

// Merge appends extra to hosts, skipping duplicates of what is already there.
func Merge(hosts []string, extra ...string) []string {
	seen := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		seen[strings.ToLower(h)] = true
	}
	for _, h := range extra {
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		hosts = append(hosts, h)
	}
	return hosts
}
