package collectors

import (
	"context"
	"testing"
	"time"
)

// fakeCollector is a minimal Collector for registry tests.
type fakeCollector struct {
	name string
}

func (f *fakeCollector) Name() string        { return f.name }
func (f *fakeCollector) Description() string { return "fake " + f.name }
func (f *fakeCollector) Collect(ctx context.Context) (*Result, error) {
	return &Result{Collector: f.name, Timestamp: time.Now()}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCollector{name: "cpu"})
	r.Register(&fakeCollector{name: "network"})

	c, ok := r.Get("cpu")
	if !ok {
		t.Fatal("Get(cpu) not found")
	}
	if c.Name() != "cpu" {
		t.Errorf("Name = %q, want cpu", c.Name())
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found = true, want false")
	}
}

func TestRegistryReplaceByName(t *testing.T) {
	r := NewRegistry()
	first := &fakeCollector{name: "cpu"}
	second := &fakeCollector{name: "cpu"}

	r.Register(first)
	r.Register(second)

	if len(r.All()) != 1 {
		t.Fatalf("All len = %d, want 1", len(r.All()))
	}
	c, _ := r.Get("cpu")
	if c != Collector(second) {
		t.Error("Register did not replace collector with same name")
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCollector{name: "cpu"})

	all := r.All()
	all[0] = &fakeCollector{name: "bogus"}

	c, ok := r.Get("cpu")
	if !ok || c.Name() != "cpu" {
		t.Error("mutating All() result affected the registry")
	}
}
