package storage

// SaveCaptureRun records a finished capture attempt.
func (s *Store) SaveCaptureRun(r CaptureRun) error {
	_, err := s.db.Exec(`
		INSERT INTO capture_runs (id, started_at, finished_at, source, handle, status, comment_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Source, r.Handle,
		r.Status, r.CommentCount, r.Error,
	)
	return err
}

// RecentCaptureRuns returns up to limit runs, newest first.
func (s *Store) RecentCaptureRuns(limit int) ([]CaptureRun, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, source, handle, status, comment_count, error
		FROM capture_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []CaptureRun{}
	for rows.Next() {
		var r CaptureRun
		var startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.Source, &r.Handle, &r.Status, &r.CommentCount, &r.Error); err != nil {
			return nil, err
		}
		if r.StartedAt, err = parseTime("started_at", startedAt); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = parseTime("finished_at", finishedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
