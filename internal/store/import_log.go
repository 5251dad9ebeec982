package store

import (
	"database/sql"
	"fmt"

	"github.com/Joaotp75/dashboard-assessores/internal/model"
)

// ImportLogUpdate 上传处理完成后写回的统计
type ImportLogUpdate struct {
	AdvisorCode    string
	TotalSheets    int
	ImportedSheets int
	EmptySheets    int
	ImportedRows   int
	BlankRows      int
	Status         string
	ErrorMessage   string
}

// CreateImportLog 创建上传日志，返回 import_log_id
func (s *Store) CreateImportLog(uploadID, filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (upload_id, filename, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?)
	`, uploadID, filename, fileSize, fileHash, model.ImportStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成上传日志更新
func (s *Store) UpdateImportLog(id int64, u ImportLogUpdate) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			advisor_code = ?,
			total_sheets = ?,
			imported_sheets = ?,
			empty_sheets = ?,
			imported_rows = ?,
			blank_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, u.AdvisorCode, u.TotalSheets, u.ImportedSheets, u.EmptySheets,
		u.ImportedRows, u.BlankRows, u.Status, u.ErrorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的上传日志（新的在前）
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, upload_id, filename, advisor_code, file_size, file_hash,
			total_sheets, imported_sheets, empty_sheets, imported_rows, blank_rows,
			status, error_message, created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.ImportLog, 0)
	for rows.Next() {
		var (
			l         model.ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(
			&l.ID, &l.UploadID, &l.Filename, &l.AdvisorCode, &l.FileSize, &l.FileHash,
			&l.TotalSheets, &l.ImportedSheets, &l.EmptySheets, &l.ImportedRows, &l.BlankRows,
			&l.Status, &l.ErrorMessage, &l.CreatedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import logs: %w", err)
	}
	return logs, nil
}
