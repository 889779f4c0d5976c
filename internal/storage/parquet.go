package storage

import "github.com/parquet-go/parquet-go"

func writeParquetSnapshot(path string, rows []snapshotRow) error {
	return parquet.WriteFile(path, rows)
}

func readParquetSnapshot(path string) ([]snapshotRow, error) {
	return parquet.ReadFile[snapshotRow](path)
}
