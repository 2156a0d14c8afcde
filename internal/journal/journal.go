package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/pkg/models"
)

// Journal appends finished run reports to a file, one JSON object per line
type Journal struct {
	mu   sync.Mutex
	path string
}

var (
	_ interfaces.Journal    = (*Journal)(nil)
	_ interfaces.RunHistory = (*Journal)(nil)
)

// New creates a journal writing to path. The file is created on first append.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file location
func (j *Journal) Path() string {
	return j.path
}

// Append writes a report as a single line
func (j *Journal) Append(report *models.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", report.RunID, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return nil
}

// ReadAll returns every report in the journal, oldest first. A missing
// journal is empty.
func (j *Journal) ReadAll() ([]models.RunReport, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var reports []models.RunReport
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r models.RunReport
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		reports = append(reports, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return reports, nil
}

// RecentRuns returns the last limit reports, newest first
func (j *Journal) RecentRuns(limit int) ([]models.RunReport, error) {
	reports, err := j.ReadAll()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(reports) > limit {
		reports = reports[len(reports)-limit:]
	}
	slices.Reverse(reports)
	return reports, nil
}
