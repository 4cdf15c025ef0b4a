package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Ext is the file extension of trace files picked up from directories.
const Ext = ".ndjson"

// ExpandSources resolves a list of files and directories into the ordered
// list of trace files they denote. A directory contributes its *.ndjson
// files (not recursively) sorted by name; files are kept as given.
func ExpandSources(sources []string) ([]string, error) {
	var files []string

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("trace source %s: %w", src, err)
		}

		if !info.IsDir() {
			files = append(files, src)
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, fmt.Errorf("reading trace directory %s: %w", src, err)
		}

		var found []string

		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
				continue
			}

			found = append(found, filepath.Join(src, e.Name()))
		}

		slices.Sort(found)
		files = append(files, found...)
	}

	return files, nil
}

// Merge concatenates the records of every source into w, in source order,
// each source's internal order preserved. Records are copied verbatim (no
// re-encoding, no de-duplication, no sorting) after checking they are valid
// JSON. It returns the number of records written.
func Merge(w io.Writer, sources []string) (int, error) {
	files, err := ExpandSources(sources)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, path := range files {
		n, err := copyRecords(w, path)
		count += n

		if err != nil {
			return count, err
		}
	}

	return count, nil
}

func copyRecords(w io.Writer, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open trace file %s: %w", path, err)
	}
	defer f.Close()

	count := 0

	err = scanLines(f, func(lineNo int, line []byte) error {
		if !json.Valid(line) {
			return fmt.Errorf("%s line %d: invalid JSON record", path, lineNo)
		}

		if _, err := w.Write(line); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}

		count++

		return nil
	})

	return count, err
}
