package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contactsheet/formatter/internal/contact"
	"github.com/contactsheet/formatter/internal/mapping"
	"github.com/contactsheet/formatter/internal/sheet"
)

// DefaultImportTimeout is the maximum duration for an import operation.
var DefaultImportTimeout = 10 * time.Minute

// Enhancer is the optional LLM cleanup boundary. Implementations must
// return the input records unchanged when the pass cannot be applied.
type Enhancer interface {
	Enabled() bool
	Enhance(ctx context.Context, records []contact.Record) ([]contact.Record, bool)
}

// Service provides the core business logic for spreadsheet import
// operations. The most recent completed result is held in memory and
// replaced wholesale by each successful import.
type Service struct {
	enhancer       Enhancer
	importTimeout  time.Duration
	defaultProfile string
	importLimiter  *ImportLimiter

	mu      sync.RWMutex
	imports map[string]*activeImport

	stateMu sync.RWMutex
	current *ImportResult
}

type activeImport struct {
	ID         string
	Profile    string
	FileName   string
	Enhance    bool
	Cancel     context.CancelFunc
	Progress   ImportProgress
	Result     *ImportResult
	Done       chan struct{}
	Listeners  []chan ImportProgress
	ListenerMu sync.Mutex
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithImportTimeout overrides the default per-import timeout.
func WithImportTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.importTimeout = d
		}
	}
}

// WithDefaultProfile sets the profile used when a request names none.
func WithDefaultProfile(key string) ServiceOption {
	return func(s *Service) {
		if key != "" {
			s.defaultProfile = key
		}
	}
}

// WithConcurrencyLimit bounds parallel imports and how long a request
// waits for a free slot before failing with ErrTooManyImports.
func WithConcurrencyLimit(maxConcurrent int, maxWait time.Duration) ServiceOption {
	return func(s *Service) {
		s.importLimiter = NewImportLimiter(maxConcurrent, maxWait)
	}
}

// NewService creates a new Service instance. The enhancer may be nil,
// in which case imports never run the cleanup phase.
func NewService(enhancer Enhancer, opts ...ServiceOption) *Service {
	s := &Service{
		enhancer:       enhancer,
		importTimeout:  DefaultImportTimeout,
		defaultProfile: "standard",
		imports:        make(map[string]*activeImport),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.importLimiter == nil {
		s.importLimiter = NewImportLimiter(DefaultMaxConcurrentImports, DefaultMaxWaitTime)
	}
	return s
}

// Drain blocks until all active imports complete or the context expires.
// Used during graceful shutdown.
func (s *Service) Drain(ctx context.Context) error {
	return s.importLimiter.WaitForDrain(ctx)
}

// ListProfiles returns all registered mapping profiles.
func (s *Service) ListProfiles() []mapping.Profile {
	return mapping.All()
}

// LimiterStatus reports the current state of the import limiter.
// Used for monitoring and shutdown coordination.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.importLimiter.Status()
}

// StartImport begins an asynchronous import operation.
// Returns the import ID immediately. Use SubscribeProgress to get updates.
// When enhance is true and an enhancer is configured, the mapped records
// get a best-effort LLM cleanup pass before the result is stored.
func (s *Service) StartImport(ctx context.Context, profileKey, fileName string, fileData []byte, enhance bool) (string, error) {
	if profileKey == "" {
		profileKey = s.defaultProfile
	}
	profile, ok := mapping.Get(profileKey)
	if !ok {
		return "", fmt.Errorf("unknown profile: %s", profileKey)
	}

	// Acquire an import slot (blocks until available or timeout)
	if err := s.importLimiter.Acquire(ctx); err != nil {
		return "", err
	}

	importID := uuid.New().String()

	// Create cancellable context
	importCtx, cancel := context.WithTimeout(context.Background(), s.importTimeout)

	imp := &activeImport{
		ID:       importID,
		Profile:  profileKey,
		FileName: fileName,
		Enhance:  enhance,
		Cancel:   cancel,
		Progress: ImportProgress{
			ImportID: importID,
			Profile:  profileKey,
			Phase:    PhaseStarting,
			FileName: fileName,
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan ImportProgress, 0),
	}

	s.mu.Lock()
	s.imports[importID] = imp
	s.mu.Unlock()

	// Process in background with panic recovery to ensure limiter release
	go func() {
		defer s.importLimiter.Release()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in import",
					"import_id", importID,
					"profile", profileKey,
					"panic", r,
				)
				imp.Progress.Phase = PhaseFailed
				imp.Progress.Error = fmt.Sprintf("internal error: %v", r)
				imp.notifyProgress()
				select {
				case <-imp.Done:
					// processImport's deferred teardown already ran
				default:
					imp.closeListeners()
					close(imp.Done)
					s.cleanup(importID, 5*time.Minute)
				}
			}
		}()
		s.processImport(importCtx, imp, profile, fileData)
	}()

	return importID, nil
}

// processImport runs the read-map-enhance pipeline for one file.
func (s *Service) processImport(ctx context.Context, imp *activeImport, profile mapping.Profile, fileData []byte) {
	startTime := time.Now()

	defer func() {
		imp.closeListeners()
		close(imp.Done)
		s.cleanup(imp.ID, 5*time.Minute)
	}()

	fail := func(phase ImportPhase, errMsg string) {
		imp.Progress.Phase = phase
		imp.Progress.Error = errMsg
		imp.notifyProgress()
		imp.Result = &ImportResult{
			ImportID: imp.ID,
			Profile:  imp.Profile,
			FileName: imp.FileName,
			Error:    errMsg,
			Duration: time.Since(startTime),
		}
	}

	imp.Progress.Phase = PhaseReading
	imp.notifyProgress()

	data, err := sheet.NewReader(imp.FileName).Read(fileData)
	if err != nil {
		fail(PhaseFailed, err.Error())
		return
	}

	if ctx.Err() != nil {
		fail(PhaseCancelled, "import cancelled")
		return
	}

	imp.Progress.Phase = PhaseMapping
	imp.Progress.TotalRows = len(data.Rows)
	imp.notifyProgress()

	records := mapping.New(profile).MapAll(data)
	imp.Progress.CurrentRow = len(records)
	imp.notifyProgress()

	if ctx.Err() != nil {
		fail(PhaseCancelled, "import cancelled")
		return
	}

	enhanced := false
	if imp.Enhance && s.enhancer != nil && s.enhancer.Enabled() {
		imp.Progress.Phase = PhaseEnhancing
		imp.notifyProgress()
		records, enhanced = s.enhancer.Enhance(ctx, records)

		if ctx.Err() != nil {
			fail(PhaseCancelled, "import cancelled")
			return
		}
	}

	result := &ImportResult{
		ImportID:  imp.ID,
		Profile:   imp.Profile,
		FileName:  imp.FileName,
		TotalRows: len(records),
		Enhanced:  enhanced,
		Records:   records,
		Duration:  time.Since(startTime),
	}
	imp.Result = result

	// Replace the session state wholesale; a failed import above never
	// reaches this point, so the prior result stays intact.
	s.stateMu.Lock()
	s.current = result
	s.stateMu.Unlock()

	imp.Progress.Phase = PhaseComplete
	imp.Progress.Enhanced = enhanced
	imp.notifyProgress()

	slog.Info("import complete",
		"import_id", imp.ID,
		"profile", imp.Profile,
		"file", imp.FileName,
		"rows", len(records),
		"enhanced", enhanced,
		"duration", time.Since(startTime),
	)
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the import completes.
func (s *Service) SubscribeProgress(importID string) (<-chan ImportProgress, error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("import not found: %s", importID)
	}

	ch := make(chan ImportProgress, 10)

	imp.ListenerMu.Lock()
	imp.Listeners = append(imp.Listeners, ch)
	// Send current progress immediately
	select {
	case ch <- imp.Progress:
	default:
	}
	imp.ListenerMu.Unlock()

	return ch, nil
}

// CancelImport cancels an in-progress import.
func (s *Service) CancelImport(importID string) error {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("import not found: %s", importID)
	}

	imp.Cancel()
	return nil
}

// GetImportResult returns the result of a completed import.
// Blocks until the import completes if still in progress.
func (s *Service) GetImportResult(importID string) (*ImportResult, error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("import not found: %s", importID)
	}

	// Wait for completion
	<-imp.Done

	return imp.Result, nil
}

// GetImportProgress returns the current progress without blocking.
func (s *Service) GetImportProgress(importID string) (ImportProgress, error) {
	s.mu.RLock()
	imp, ok := s.imports[importID]
	s.mu.RUnlock()

	if !ok {
		return ImportProgress{}, fmt.Errorf("import not found: %s", importID)
	}

	return imp.Progress, nil
}

// CurrentResult returns the most recent completed import result, or
// false when no import has completed yet.
func (s *Service) CurrentResult() (*ImportResult, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// CurrentRecords returns the mapped records of the most recent
// completed import.
func (s *Service) CurrentRecords() ([]contact.Record, bool) {
	result, ok := s.CurrentResult()
	if !ok {
		return nil, false
	}
	return result.Records, true
}

// notifyProgress sends progress updates to all listeners.
func (imp *activeImport) notifyProgress() {
	imp.ListenerMu.Lock()
	defer imp.ListenerMu.Unlock()

	for _, ch := range imp.Listeners {
		select {
		case ch <- imp.Progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// closeListeners closes all listener channels.
func (imp *activeImport) closeListeners() {
	imp.ListenerMu.Lock()
	defer imp.ListenerMu.Unlock()

	for _, ch := range imp.Listeners {
		close(ch)
	}
	imp.Listeners = nil
}

// cleanup removes the import from tracking after a delay.
func (s *Service) cleanup(importID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.imports, importID)
		s.mu.Unlock()
	})
}
