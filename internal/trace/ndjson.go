package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single NDJSON record.
const maxLineSize = 64 * 1024 * 1024

// filePerm is the mode of written trace files.
const filePerm = 0o644

// Read decodes every event of an NDJSON stream, in order. Blank lines are
// skipped.
func Read(r io.Reader) ([]Event, error) {
	var events []Event

	err := scanLines(r, func(lineNo int, line []byte) error {
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		events = append(events, ev)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return events, nil
}

// ReadFile decodes the events stored in an NDJSON file.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file %s: %w", path, err)
	}
	defer f.Close()

	events, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file %s: %w", path, err)
	}

	return events, nil
}

// Write encodes values one per line.
func Write[T any](w io.Writer, values []T) error {
	bw := bufio.NewWriter(w)

	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for i := range values {
		if err := enc.Encode(values[i]); err != nil {
			return fmt.Errorf("encoding record %d: %w", i+1, err)
		}
	}

	return bw.Flush()
}

// WriteFile writes values to path as NDJSON, replacing the file.
func WriteFile[T any](path string, values []T) error {
	var buf bytes.Buffer
	if err := Write(&buf, values); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write trace file %s: %w", path, err)
	}

	return nil
}

// scanLines calls fn for every non-blank line with its 1-based line number.
func scanLines(r io.Reader, fn func(lineNo int, line []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		if err := fn(lineNo, line); err != nil {
			return err
		}
	}

	return sc.Err()
}
