package storage

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// RecordSelection archives one selection event.
func (s *SQLiteStorage) RecordSelection(event SelectionEvent) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.SelectionID == "" {
		event.SelectionID = uuid.NewString()
	}

	query := `
		INSERT INTO selection_events (selection_id, task_type, context_hash, selected_tools, confidence, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		event.SelectionID,
		event.TaskType,
		event.ContextHash,
		toolsToJSON(event.SelectedTools),
		event.Confidence,
		event.Timestamp.Format(time.RFC3339),
	)

	if err != nil {
		log.Printf("Warning: failed to record selection: %v", err)
	}

	return nil
}

// SelectionHistory retrieves archived selections since a given time,
// newest first.
func (s *SQLiteStorage) SelectionHistory(since time.Time) ([]SelectionEvent, error) {
	if !s.enabled || s.db == nil {
		return []SelectionEvent{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT selection_id, task_type, context_hash, selected_tools, confidence, timestamp
		FROM selection_events
		WHERE timestamp >= ?
		ORDER BY timestamp DESC
	`

	rows, err := s.db.Query(query, since.Format(time.RFC3339))
	if err != nil {
		log.Printf("Warning: failed to query selection history: %v", err)
		return []SelectionEvent{}, nil
	}
	defer rows.Close()

	var events []SelectionEvent
	for rows.Next() {
		var event SelectionEvent
		var toolsStr, timestampStr string

		if err := rows.Scan(
			&event.SelectionID,
			&event.TaskType,
			&event.ContextHash,
			&toolsStr,
			&event.Confidence,
			&timestampStr,
		); err != nil {
			log.Printf("Warning: failed to scan selection row: %v", err)
			continue
		}

		event.SelectedTools, err = jsonToTools(toolsStr)
		if err != nil {
			log.Printf("Warning: failed to parse tool list: %v", err)
			continue
		}

		event.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			log.Printf("Warning: failed to parse timestamp: %v", err)
			continue
		}

		events = append(events, event)
	}

	return events, nil
}

// RecordSample archives one metric sample.
func (s *SQLiteStorage) RecordSample(sample MetricSample) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO metric_samples (tool_id, kind, value, timestamp)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		sample.ToolID,
		sample.Kind,
		sample.Value,
		sample.Timestamp.Format(time.RFC3339),
	)

	if err != nil {
		log.Printf("Warning: failed to record sample: %v", err)
	}

	return nil
}

// RecordAlert archives one threshold alert.
func (s *SQLiteStorage) RecordAlert(alert AlertRecord) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO alert_log (tool_id, kind, value, threshold, severity, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		alert.ToolID,
		alert.Kind,
		alert.Value,
		alert.Threshold,
		alert.Severity,
		alert.Timestamp.Format(time.RFC3339),
	)

	if err != nil {
		log.Printf("Warning: failed to record alert: %v", err)
	}

	return nil
}

// RecentSamples retrieves archived metric samples since a given time,
// oldest first, so a replay preserves each sample's relative order.
func (s *SQLiteStorage) RecentSamples(since time.Time) ([]MetricSample, error) {
	if !s.enabled || s.db == nil {
		return []MetricSample{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT tool_id, kind, value, timestamp
		FROM metric_samples
		WHERE timestamp >= ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.db.Query(query, since.Format(time.RFC3339))
	if err != nil {
		log.Printf("Warning: failed to query samples: %v", err)
		return []MetricSample{}, nil
	}
	defer rows.Close()

	var samples []MetricSample
	for rows.Next() {
		var sample MetricSample
		var timestampStr string

		if err := rows.Scan(&sample.ToolID, &sample.Kind, &sample.Value, &timestampStr); err != nil {
			log.Printf("Warning: failed to scan sample row: %v", err)
			continue
		}

		sample.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			log.Printf("Warning: failed to parse timestamp: %v", err)
			continue
		}

		samples = append(samples, sample)
	}

	return samples, nil
}

// ToolSuccessScores aggregates the mean archived successRate per tool
// since a given time. Tools without successRate samples are absent from
// the result.
func (s *SQLiteStorage) ToolSuccessScores(since time.Time) (map[string]float64, error) {
	scores := make(map[string]float64)

	if !s.enabled || s.db == nil {
		return scores, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT tool_id, AVG(value)
		FROM metric_samples
		WHERE kind = 'successRate' AND timestamp >= ?
		GROUP BY tool_id
	`

	rows, err := s.db.Query(query, since.Format(time.RFC3339))
	if err != nil {
		log.Printf("Warning: failed to query success scores: %v", err)
		return scores, nil
	}
	defer rows.Close()

	for rows.Next() {
		var toolID string
		var score float64
		if err := rows.Scan(&toolID, &score); err != nil {
			log.Printf("Warning: failed to scan score row: %v", err)
			continue
		}
		scores[toolID] = score
	}

	return scores, nil
}

// Cleanup removes records older than the retention period.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention).Format(time.RFC3339)

	for _, table := range []string{"selection_events", "metric_samples", "alert_log"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE timestamp < ?", cutoff); err != nil {
			log.Printf("Warning: cleanup of %s failed: %v", table, err)
		}
	}

	return nil
}
