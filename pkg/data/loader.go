package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is a single record of a delimited table keyed by header name.
type Row struct {
	Line   int
	Fields map[string]string
	// Err is set for malformed records; Fields is nil then.
	Err error
}

// ReadHeader returns the header of a CSV stream with any UTF-8 BOM removed.
func ReadHeader(reader *csv.Reader) ([]string, error) {
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty table: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out, nil
}

// StreamRows streams the rows of the CSV file at path through out, keyed by the
// header row. The header is read before returning so a missing or empty file fails
// immediately. Close the returned done chan to stop early.
func StreamRows(path string, out chan<- Row) (header []string, done chan struct{}, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true
	header, err = ReadHeader(reader)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	reader.FieldsPerRecord = len(header)
	done = make(chan struct{})

	go func() {
		defer file.Close()
		defer close(out)
		for {
			rec, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			var row Row
			var perr *csv.ParseError
			if err != nil {
				row.Err = err
				if errors.As(err, &perr) {
					row.Line = perr.Line
				}
			} else {
				row.Line, _ = reader.FieldPos(0)
				row.Fields = make(map[string]string, len(header))
				for i, h := range header {
					row.Fields[h] = rec[i]
				}
			}
			select {
			case out <- row:
			case <-done:
				return
			}
			// Anything but a malformed record means the reader cannot continue.
			if err != nil && perr == nil {
				return
			}
		}
	}()
	return header, done, nil
}

// Batcher groups rows from in into slices of at most batchSize and emits them on out.
// The final, possibly short, batch is flushed when in closes.
func Batcher(in <-chan Row, batchSize int, out chan<- []Row) (done chan struct{}) {
	done = make(chan struct{})

	go func() {
		defer close(out)

		var batch []Row
		for {
			select {
			case <-done:
				return
			case r, ok := <-in:
				if !ok {
					if len(batch) > 0 {
						select {
						case out <- batch:
						case <-done:
						}
					}
					return
				}
				batch = append(batch, r)
				if len(batch) == batchSize {
					select {
					case out <- batch:
					case <-done:
						return
					}
					batch = nil
				}
			}
		}
	}()
	return done
}
