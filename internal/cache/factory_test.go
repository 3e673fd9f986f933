package cache

import (
	"testing"
	"time"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("carrier-pigeon", ProviderConfig{})
	if err == nil {
		t.Fatal("New(carrier-pigeon) error = nil, want unknown provider error")
	}
}

func TestRegisteredProviders(t *testing.T) {
	names := RegisteredProviders()

	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if !found["memory"] || !found["redis"] {
		t.Errorf("RegisteredProviders() = %v, want memory and redis included", names)
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("RegisteredProviders() not sorted: %v", names)
		}
	}
}

func TestRegister_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate name did not panic")
		}
	}()
	Register("memory", newMemoryCache)
}

func TestRegister_NilProvider(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a nil provider did not panic")
		}
	}()
	Register("nil-provider", nil)
}

func TestNew_WithGroupWrapsInstrumentation(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 4, TTL: time.Minute, Group: "factory-test"})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	defer c.Close()

	if _, ok := c.(*instrumentedCache); !ok {
		t.Errorf("New() with Group returned %T, want *instrumentedCache", c)
	}
}

func TestNew_WithoutGroupSkipsInstrumentation(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 4, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	defer c.Close()

	if _, ok := c.(*instrumentedCache); ok {
		t.Error("New() without Group wrapped the cache in instrumentation")
	}
}
