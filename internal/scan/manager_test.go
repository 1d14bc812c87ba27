package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestManager(probe func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord) *Manager {
	return &Manager{probe: probe}
}

func recordFor(host string) *DeviceRecord {
	return &DeviceRecord{
		IP:         host,
		Hostname:   host,
		MAC:        UnknownMAC,
		DeviceType: "Unknown Device",
		ScanTime:   time.Now().Format("15:04:05"),
	}
}

func TestScanAllHostsDown(t *testing.T) {
	m := newTestManager(func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
		return nil
	})

	var mu sync.Mutex
	var progress []Progress
	var deviceCalls int

	devices, err := m.Scan(context.Background(), Config{Subnet: "192.0.2.0/30", Workers: 2},
		func(completed, total int) {
			mu.Lock()
			progress = append(progress, Progress{Completed: completed, Total: total})
			mu.Unlock()
		},
		func(DeviceRecord) {
			mu.Lock()
			deviceCalls++
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("expected no devices, got %d", len(devices))
	}
	if deviceCalls != 0 {
		t.Fatalf("expected no device callbacks, got %d", deviceCalls)
	}
	if len(progress) != 2 {
		t.Fatalf("expected exactly 2 progress calls, got %d", len(progress))
	}
	seen := map[int]bool{}
	for _, p := range progress {
		if p.Total != 2 {
			t.Fatalf("expected total=2, got %d", p.Total)
		}
		seen[p.Completed] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected completed counts 1 and 2, got %v", progress)
	}
}

func TestScanCollectsResponders(t *testing.T) {
	m := newTestManager(func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
		if host == "10.0.0.2" {
			return recordFor(host)
		}
		return nil
	})

	var mu sync.Mutex
	var streamed []DeviceRecord

	devices, err := m.Scan(context.Background(), Config{Subnet: "10.0.0.0/29", Workers: 3}, nil,
		func(record DeviceRecord) {
			mu.Lock()
			streamed = append(streamed, record)
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 1 || devices[0].IP != "10.0.0.2" {
		t.Fatalf("expected single record for 10.0.0.2, got %v", devices)
	}
	if len(streamed) != 1 || streamed[0].IP != "10.0.0.2" {
		t.Fatalf("expected single streamed record, got %v", streamed)
	}
}

func TestScanInvalidRange(t *testing.T) {
	m := newTestManager(func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
		t.Fatal("probe must not run for an invalid range")
		return nil
	})

	if _, err := m.Scan(context.Background(), Config{Subnet: "not-a-range"}, nil, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := m.Scan(context.Background(), Config{Subnet: "10.0.0.0/24", Mode: "turbo"}, nil, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for unknown mode, got %v", err)
	}
	if _, err := m.Scan(context.Background(), Config{Subnet: "10.0.0.0/24", Workers: -1}, nil, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for negative workers, got %v", err)
	}
}

func TestCancelStopsDispatch(t *testing.T) {
	var m *Manager
	var mu sync.Mutex
	var probeCalls int

	m = newTestManager(func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
		mu.Lock()
		probeCalls++
		mu.Unlock()
		// Cancel mid-probe: the record below must be discarded and no
		// further targets dispatched.
		m.Cancel()
		return recordFor(host)
	})

	var progressCalls, deviceCalls int
	devices, err := m.Scan(context.Background(), Config{Subnet: "10.0.0.0/29", Workers: 1},
		func(completed, total int) {
			mu.Lock()
			progressCalls++
			mu.Unlock()
		},
		func(DeviceRecord) {
			mu.Lock()
			deviceCalls++
			mu.Unlock()
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if probeCalls != 1 {
		t.Fatalf("expected 1 probe before cancellation, got %d", probeCalls)
	}
	if progressCalls != 1 {
		t.Fatalf("expected 1 progress call, got %d", progressCalls)
	}
	if deviceCalls != 0 {
		t.Fatalf("expected no device callbacks after cancellation, got %d", deviceCalls)
	}
	if len(devices) != 0 {
		t.Fatalf("expected no records after cancellation, got %d", len(devices))
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	m := NewManager()
	m.Cancel()
	m.Cancel()
}

func TestScanCancelAndReplace(t *testing.T) {
	firstEntered := make(chan struct{})
	release := make(chan struct{})

	var m *Manager
	m = newTestManager(func(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
		select {
		case firstEntered <- struct{}{}:
			// First scan's probe: park until the replacement scan is done.
			<-release
			return recordFor(host)
		default:
			return recordFor(host)
		}
	})

	firstDone := make(chan []DeviceRecord, 1)
	go func() {
		devices, _ := m.Scan(context.Background(), Config{Subnet: "10.0.0.0/30", Workers: 1}, nil, nil)
		firstDone <- devices
	}()

	<-firstEntered

	second, err := m.Scan(context.Background(), Config{Subnet: "10.0.1.0/30", Workers: 2}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 records from replacement scan, got %d", len(second))
	}

	close(release)
	first := <-firstDone
	if len(first) != 0 {
		t.Fatalf("expected superseded scan to keep no records, got %d", len(first))
	}
}

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantMode    string
		wantWorkers int
	}{
		{"empty", Config{}, ModeFast, FastModeWorkers},
		{"fast", Config{Mode: ModeFast}, ModeFast, FastModeWorkers},
		{"deep", Config{Mode: ModeDeep}, ModeDeep, DeepModeWorkers},
		{"override", Config{Mode: ModeDeep, Workers: 7}, ModeDeep, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.mode(); got != tt.wantMode {
				t.Fatalf("mode: expected %s, got %s", tt.wantMode, got)
			}
			if got := tt.config.workers(); got != tt.wantWorkers {
				t.Fatalf("workers: expected %d, got %d", tt.wantWorkers, got)
			}
		})
	}
}
