package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnPass(PassFull, 100, 12, time.Millisecond)
	l.OnInvalidate("remove", 3)

	r := NoopRealizationHooks{}
	r.OnRealize(1, true)
	r.OnRecycle(1, false)
	r.OnDestroy(1)

	p := NoopPipelineHooks{}
	p.OnReplayStart(ctx, "masonry", 100, 3)
	p.OnReplayComplete(ctx, "masonry", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "snapshot")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "snapshot", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layouts")
	h.OnResponse(ctx, "POST", "/v1/layouts", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Realization().(NoopRealizationHooks); !ok {
		t.Error("Realization() should return NoopRealizationHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customRealization := &testRealizationHooks{}
	SetRealizationHooks(customRealization)
	if Realization() != customRealization {
		t.Error("SetRealizationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Setting nil keeps existing hooks
	SetLayoutHooks(nil)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks(nil) should not change hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
	if _, ok := Realization().(NoopRealizationHooks); !ok {
		t.Error("Reset() should restore NoopRealizationHooks")
	}
}

type testLayoutHooks struct{ NoopLayoutHooks }
type testRealizationHooks struct{ NoopRealizationHooks }
type testCacheHooks struct{ NoopCacheHooks }
