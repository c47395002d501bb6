package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// Load reads a frequency list, one "word [count]" entry per line. The file is
// memory-mapped read-only while it is parsed.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dictionary: stat: %w", err)
	}
	if st.Size() == 0 {
		return New(nil), nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("dictionary: mmap: %w", err)
	}
	defer m.Unmap()

	return Parse(bytes.NewReader(m))
}

// Parse reads the Load format from r. Lines with an unparsable count keep the
// word at frequency 1, and counts below 1 are raised to 1; blank lines and
// '#' comments are skipped.
func Parse(r io.Reader) (*Dictionary, error) {
	entries := make(map[string]int64)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		var count int64 = 1
		if len(parts) > 1 {
			if n, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				count = n
			} else if fv, err := strconv.ParseFloat(parts[1], 64); err == nil {
				count = int64(fv)
			}
		}
		w := Normalize(parts[0])
		if old, ok := entries[w]; !ok || count > old {
			entries[w] = count
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: read: %w", err)
	}
	return New(entries), nil
}
