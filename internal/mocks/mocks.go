package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/pkg/models"
)

// MockRunRecorder is a mock implementation of RunRecorder for testing.
// Calls are kept so tests can assert on them.
type MockRunRecorder struct {
	StartRunFunc   func(report *models.RunReport) error
	RecordStepFunc func(runID string, step models.StepResult) error
	FinishRunFunc  func(report *models.RunReport) error

	mu       sync.Mutex
	Started  []string
	Steps    []models.StepResult
	Finished []models.RunReport
}

// NewMockRunRecorder creates a new mock recorder
func NewMockRunRecorder() *MockRunRecorder {
	return &MockRunRecorder{}
}

func (m *MockRunRecorder) StartRun(report *models.RunReport) error {
	m.mu.Lock()
	m.Started = append(m.Started, report.RunID)
	m.mu.Unlock()
	if m.StartRunFunc != nil {
		return m.StartRunFunc(report)
	}
	return nil
}

func (m *MockRunRecorder) RecordStep(runID string, step models.StepResult) error {
	m.mu.Lock()
	m.Steps = append(m.Steps, step)
	m.mu.Unlock()
	if m.RecordStepFunc != nil {
		return m.RecordStepFunc(runID, step)
	}
	return nil
}

func (m *MockRunRecorder) FinishRun(report *models.RunReport) error {
	m.mu.Lock()
	m.Finished = append(m.Finished, *report)
	m.mu.Unlock()
	if m.FinishRunFunc != nil {
		return m.FinishRunFunc(report)
	}
	return nil
}

// Ensure MockRunRecorder implements RunRecorder interface
var _ interfaces.RunRecorder = (*MockRunRecorder)(nil)

// MockJournal is a mock implementation of Journal for testing
type MockJournal struct {
	AppendFunc func(report *models.RunReport) error
	Reports    []models.RunReport
}

func (m *MockJournal) Append(report *models.RunReport) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(report)
	}
	m.Reports = append(m.Reports, *report)
	return nil
}

// Ensure MockJournal implements Journal interface
var _ interfaces.Journal = (*MockJournal)(nil)

// MockPairer is a mock implementation of Pairer for testing. Without
// PairFunc it binds every instruction to Action.
type MockPairer struct {
	PairFunc        func(inst *models.Instruction) bool
	IsSupportedFunc func(step string, punct models.Punctuation) bool
	Action          *models.Action
}

func (m *MockPairer) Pair(inst *models.Instruction) bool {
	if m.PairFunc != nil {
		return m.PairFunc(inst)
	}
	if m.Action == nil {
		return false
	}
	inst.Action = m.Action
	inst.Description = m.Action.Summary
	return true
}

func (m *MockPairer) PairAll(steps []*models.Instruction) []*models.Instruction {
	var unmatched []*models.Instruction
	for _, inst := range steps {
		if !m.Pair(inst) {
			unmatched = append(unmatched, inst)
		}
	}
	return unmatched
}

func (m *MockPairer) IsSupported(step string, punct models.Punctuation) bool {
	if m.IsSupportedFunc != nil {
		return m.IsSupportedFunc(step, punct)
	}
	return m.Action != nil
}

// Ensure MockPairer implements Pairer interface
var _ interfaces.Pairer = (*MockPairer)(nil)

// MockSettingsManager is a mock implementation of SettingsManager for testing
type MockSettingsManager struct {
	GetSettingFunc func(key string) (string, error)
	SetSettingFunc func(key, value string) error
	settings       map[string]string
}

// NewMockSettingsManager creates a new mock settings manager
func NewMockSettingsManager() *MockSettingsManager {
	return &MockSettingsManager{settings: make(map[string]string)}
}

func (m *MockSettingsManager) GetSetting(key string) (string, error) {
	if m.GetSettingFunc != nil {
		return m.GetSettingFunc(key)
	}
	return m.settings[key], nil
}

func (m *MockSettingsManager) SetSetting(key, value string) error {
	if m.SetSettingFunc != nil {
		return m.SetSettingFunc(key, value)
	}
	if m.settings == nil {
		return fmt.Errorf("settings not initialized")
	}
	m.settings[key] = value
	return nil
}

// Ensure MockSettingsManager implements SettingsManager interface
var _ interfaces.SettingsManager = (*MockSettingsManager)(nil)

// MockTopicRunner is a mock implementation of TopicRunner for testing.
// Without RunFunc every run ends OK with all steps completed.
type MockTopicRunner struct {
	RunFunc func(ctx context.Context, execCtx *models.ExecutionContext, topic *models.Topic) *models.RunReport
	DryRun  bool
	Topics  []string
	Context *models.ExecutionContext
}

func (m *MockTopicRunner) Run(ctx context.Context, execCtx *models.ExecutionContext, topic *models.Topic) *models.RunReport {
	m.Topics = append(m.Topics, topic.Title)
	m.Context = execCtx
	if m.RunFunc != nil {
		return m.RunFunc(ctx, execCtx, topic)
	}
	return &models.RunReport{
		Topic:          topic.Title,
		TotalSteps:     len(topic.Steps),
		CompletedSteps: len(topic.Steps),
		Status:         models.StatusOK,
		DryRun:         m.DryRun,
	}
}

func (m *MockTopicRunner) SetDryRun(enabled bool) {
	m.DryRun = enabled
}

// Ensure MockTopicRunner implements TopicRunner interface
var _ interfaces.TopicRunner = (*MockTopicRunner)(nil)
