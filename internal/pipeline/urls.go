package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadURLs reads one URL per line. Blank lines and lines starting with '#' are skipped.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

// ReadURLsFile reads a URL list from path.
func ReadURLsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list %s: %w", path, err)
	}
	defer f.Close()
	return ReadURLs(f)
}
