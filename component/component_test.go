package component

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "storage", Details: "sftp example.com:22"}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(&mockComponent{name: "warehouse"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(&mockComponent{name: "warehouse"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&mockComponent{name: "warehouse"})

	got := r.Get("warehouse")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "warehouse" {
		t.Errorf("expected 'warehouse', got %q", got.Name())
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}

	r.Register(&mockComponent{name: "warehouse", startOrder: &order})
	r.Register(&describedComponent{mockComponent{name: "sink", startOrder: &order}})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "warehouse" || order[1] != "sink" {
		t.Errorf("expected start order [warehouse, sink], got %v", order)
	}
}

func TestStartAllErrorStopsStartedOnly(t *testing.T) {
	r := NewRegistry(nil)
	started := []string{}
	stopped := []string{}

	r.Register(&mockComponent{name: "warehouse", startOrder: &started, stopOrder: &stopped})
	r.Register(&mockComponent{name: "sink", startErr: fmt.Errorf("connection refused"), startOrder: &started, stopOrder: &stopped})
	r.Register(&mockComponent{name: "never", startOrder: &started, stopOrder: &stopped})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StartAll")
	}
	if !strings.Contains(err.Error(), "failed to start sink") {
		t.Errorf("expected error to name sink, got %q", err.Error())
	}
	if len(started) != 2 {
		t.Errorf("expected start to halt after failure, got %v", started)
	}

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stopped) != 1 || stopped[0] != "warehouse" {
		t.Errorf("expected only warehouse to be stopped, got %v", stopped)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}

	r.Register(&mockComponent{name: "warehouse", stopOrder: &order})
	r.Register(&mockComponent{name: "sink", stopOrder: &order})
	r.Register(&mockComponent{name: "notifier", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 || order[0] != "notifier" || order[1] != "sink" || order[2] != "warehouse" {
		t.Errorf("expected reverse stop order [notifier, sink, warehouse], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry(nil)
	order := []string{}
	r.Register(&mockComponent{name: "warehouse", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&mockComponent{name: "warehouse", stopErr: fmt.Errorf("close failed")})
	r.Register(&mockComponent{name: "sink", stopErr: fmt.Errorf("quit failed")})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	for _, want := range []string{"failed to stop warehouse", "failed to stop sink"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}
