// Package jsonl reads and writes item records as JSON Lines, one
// {"id","description","location"} object per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mesh-intelligence/storeroom/internal/logger"
	"github.com/mesh-intelligence/storeroom/pkg/types"
)

// Read parses item records from r. Blank lines and lines that are not valid
// JSON objects are skipped. A record without an id fails with ErrInvalidID.
func Read(r io.Reader) ([]types.ItemRecord, error) {
	var records []types.ItemRecord
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec types.ItemRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed jsonl line", "line", lineNo, "error", err)
			continue
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("line %d: %w", lineNo, types.ErrInvalidID)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning jsonl: %w", err)
	}
	return records, nil
}

// ReadFile opens path and parses its item records.
func ReadFile(path string) ([]types.ItemRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	logger.Debug("read seed file", "path", path, "records", len(records))
	return records, nil
}

// Write encodes items to w, one record per line, in the given order.
func Write(w io.Writer, items []*types.Item) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, item := range items {
		if err := enc.Encode(item.Record()); err != nil {
			return fmt.Errorf("writing record %s: %w", item.ID(), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	return nil
}

// Load adds records to reg in order and stops at the first failure.
func Load(reg types.Registry, records []types.ItemRecord) error {
	for _, rec := range records {
		item, err := rec.Item()
		if err != nil {
			return err
		}
		if err := reg.Add(item); err != nil {
			return fmt.Errorf("loading %s: %w", rec.ID, err)
		}
	}
	return nil
}
