package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, "smart", 10)
	l.OnLayoutComplete(ctx, "smart", 10, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "flow")
	c.OnCacheMiss(ctx, "flow")
	c.OnCacheSet(ctx, "flow", 1024)

	NoopHTTPHooks{}.OnRequest(ctx, "POST", "/v1/layouts/grid", 200, time.Millisecond)

	s := NoopStoreHooks{}
	s.OnCommit("addNode", 1, 0, 2)
	s.OnRejected("addEdge", errors.New("self-loop"))
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	custom := NewLogHooks(log.New(&bytes.Buffer{}))
	SetLayoutHooks(custom)
	SetCacheHooks(custom)
	SetHTTPHooks(custom)
	if Layout() != LayoutHooks(custom) || Cache() != CacheHooks(custom) || HTTP() != HTTPHooks(custom) {
		t.Error("Set*Hooks should install custom hooks")
	}

	SetLayoutHooks(nil)
	if Layout() != LayoutHooks(custom) {
		t.Error("SetLayoutHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestLogHooksWrite(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	h.OnLayoutComplete(context.Background(), "flow", 120, 3*time.Millisecond, nil)
	h.OnRejected("addEdge", errors.New("connection already exists"))

	out := buf.String()
	for _, want := range []string{"layout done", "strategy=flow", "rejected", "connection already exists"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
