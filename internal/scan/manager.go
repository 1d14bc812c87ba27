package scan

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/projectdiscovery/gologger"
)

// Manager coordinates scan sessions. At most one session is live per
// Manager: starting a new scan cancels and replaces the previous one, so a
// caller never waits on a stale sweep before launching a fresh one.
type Manager struct {
	mu      sync.Mutex
	current *session

	// probe is swappable so coordinator tests run without a network.
	probe func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord
}

// NewManager creates a Manager using the real host probe.
func NewManager() *Manager {
	return &Manager{probe: probeHost}
}

// session owns the mutable state of one scan: the worklist, the record
// accumulator, the completed counter and the cancellation flag. Workers hold
// a reference to their session rather than the Manager, so probes of a
// superseded session drain against their own, already-cancelled state.
type session struct {
	targets   []string
	mdns      *mdnsTable
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool

	mu        sync.Mutex
	records   []DeviceRecord
	completed int
}

func newSession(parent context.Context, targets []string) *session {
	ctx, cancel := context.WithCancel(parent)
	return &session{
		targets: targets,
		mdns:    newMDNSTable(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *session) stop() {
	s.cancelled.Store(true)
	s.cancel()
}

func (s *session) stopped() bool {
	return s.cancelled.Load() || s.ctx.Err() != nil
}

// append stores a record unless cancellation was observed first.
func (s *session) append(record DeviceRecord) bool {
	if s.stopped() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return true
}

func (s *session) complete() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	return Progress{Completed: s.completed, Total: len(s.targets)}
}

func (s *session) snapshot() []DeviceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DeviceRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Scan sweeps the configured range and blocks until every dispatched probe
// has finished or cancellation was observed. Discovered devices stream to
// onDevice and counts to onProgress in completion order, each delivered
// exactly once per dispatched target; the accumulated record list is
// returned either way. Only configuration errors fail the call — a single
// probe's failure never aborts the scan.
func (m *Manager) Scan(ctx context.Context, config Config, onProgress func(completed, total int), onDevice func(DeviceRecord)) ([]DeviceRecord, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	subnet := config.Subnet
	if subnet == "" {
		_, detected, err := DetectNetwork()
		if err != nil {
			gologger.Warning().Msgf("network auto-detection failed, falling back to %s", detected)
		}
		subnet = detected
	}

	targets, err := resolveTargets(subnet)
	if err != nil {
		return nil, err
	}

	s := newSession(ctx, targets)
	defer s.cancel()

	m.mu.Lock()
	if m.current != nil {
		m.current.stop()
	}
	m.current = s
	m.mu.Unlock()

	deep := config.mode() == ModeDeep
	gologger.Info().Msgf("scanning %s: %d hosts, %s mode, %d workers", subnet, len(targets), config.mode(), config.workers())

	go s.mdns.run(s.ctx)

	sem := make(chan struct{}, config.workers())
	var wg sync.WaitGroup

	for _, target := range s.targets {
		if s.stopped() {
			break
		}
		sem <- struct{}{}
		// Re-check after the semaphore wait: cancellation during a full
		// pool must not dispatch another probe.
		if s.stopped() {
			<-sem
			break
		}
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			defer func() { <-sem }()
			m.scanTarget(s, host, deep, onProgress, onDevice)
		}(target)
	}
	wg.Wait()

	m.mu.Lock()
	if m.current == s {
		m.current = nil
	}
	m.mu.Unlock()

	records := s.snapshot()
	gologger.Info().Msgf("scan of %s finished: %d device(s) found", subnet, len(records))
	return records, nil
}

func (m *Manager) scanTarget(s *session, host string, deep bool, onProgress func(completed, total int), onDevice func(DeviceRecord)) {
	if !s.stopped() {
		if record := m.probe(s.ctx, host, deep, s.mdns); record != nil {
			if s.append(*record) && onDevice != nil {
				onDevice(*record)
			}
		}
	}

	// Every dispatched target produces exactly one progress tick, reached
	// or not, so completed counts stay monotonic up to the total.
	progress := s.complete()
	if onProgress != nil {
		onProgress(progress.Completed, progress.Total)
	}
}

// Cancel stops the active scan, if any. Idempotent and safe to call from
// any goroutine: in-flight probes run to their own timeouts, but no new
// probes start and no further records are kept once the flag is observed.
func (m *Manager) Cancel() {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()
	if s != nil {
		s.stop()
	}
}
