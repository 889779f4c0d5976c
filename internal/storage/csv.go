package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spec-kit/triage-service/internal/domain"
)

// WriteCSV streams tickets in the snapshot column layout. The export
// endpoint shares it with the file store so downloads match saved snapshots
// column for column.
func WriteCSV(w io.Writer, tickets []domain.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotColumns); err != nil {
		return err
	}
	for _, ticket := range tickets {
		if err := cw.Write(toSnapshotRow(ticket).record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVSnapshot(path string, tickets []domain.Ticket) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, tickets); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSVSnapshot(path string) ([]snapshotRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	headerRecord, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[name] = i
	}

	var rows []snapshotRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := rowFromRecord(header, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
