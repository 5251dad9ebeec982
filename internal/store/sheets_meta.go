package store

import (
	"fmt"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// InsertSheetMeta 写入工作表元信息
func (s *Store) InsertSheetMeta(meta model.SheetMeta) error {
	_, err := s.db.Exec(`
		INSERT INTO sheets_meta (
			import_log_id, source_file, sheet_name,
			rows_read, imported_rows, blank_rows,
			status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		meta.ImportLogID, meta.SourceFile, meta.SheetName,
		meta.RowsRead, meta.ImportedRows, meta.BlankRows,
		meta.Status, meta.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sheets_meta: %w", err)
	}
	return nil
}

// ListSheetMeta 某个上传日志下的工作表元信息，按写入顺序
func (s *Store) ListSheetMeta(importLogID int64) ([]model.SheetMeta, error) {
	rows, err := s.db.Query(`
		SELECT import_log_id, source_file, sheet_name,
			rows_read, imported_rows, blank_rows, status, error_message
		FROM sheets_meta
		WHERE import_log_id = ?
		ORDER BY id
	`, importLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheets_meta: %w", err)
	}
	defer rows.Close()

	var metas []model.SheetMeta
	for rows.Next() {
		var m model.SheetMeta
		if err := rows.Scan(
			&m.ImportLogID, &m.SourceFile, &m.SheetName,
			&m.RowsRead, &m.ImportedRows, &m.BlankRows, &m.Status, &m.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sheets_meta: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
