package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listener struct {
	name string
	seen []EventContext
	stop bool
}

func (l *listener) onEvent(context EventContext) bool {
	l.seen = append(l.seen, context)
	return l.stop
}

func TestEventSystemDispatch(t *testing.T) {
	es := NewEventSystem()
	first := &listener{name: "first"}
	second := &listener{name: "second"}

	require.True(t, es.Register(EVENT_CODE_KEY_PRESSED, first, first.onEvent))
	require.True(t, es.Register(EVENT_CODE_KEY_PRESSED, second, second.onEvent))
	assert.False(t, es.Register(EVENT_CODE_KEY_PRESSED, first, first.onEvent))

	assert.False(t, es.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED, KeyCode: KEY_R}))
	require.Len(t, first.seen, 1)
	require.Len(t, second.seen, 1)
	assert.Equal(t, KEY_R, second.seen[0].KeyCode)

	// A handler that reports the event handled hides it from later listeners.
	first.stop = true
	assert.True(t, es.Fire(EventContext{Type: EVENT_CODE_KEY_PRESSED, KeyCode: KEY_SPACE}))
	assert.Len(t, first.seen, 2)
	assert.Len(t, second.seen, 1)

	// Other codes reach nobody.
	assert.False(t, es.Fire(EventContext{Type: EVENT_CODE_RESIZED}))
}

func TestEventSystemUnregister(t *testing.T) {
	es := NewEventSystem()
	l := &listener{}
	require.True(t, es.Register(EVENT_CODE_ASSET_CHANGED, l, l.onEvent))
	assert.True(t, es.Unregister(EVENT_CODE_ASSET_CHANGED, l))
	assert.False(t, es.Unregister(EVENT_CODE_ASSET_CHANGED, l))

	es.Fire(EventContext{Type: EVENT_CODE_ASSET_CHANGED, Path: "a.vert"})
	assert.Empty(t, l.seen)

	require.True(t, es.Register(EVENT_CODE_ASSET_CHANGED, l, l.onEvent))
	es.Shutdown()
	es.Fire(EventContext{Type: EVENT_CODE_ASSET_CHANGED, Path: "a.vert"})
	assert.Empty(t, l.seen)
}

func TestMetricsAverageAndFPS(t *testing.T) {
	m := NewMetrics()
	assert.False(t, m.Update(0.010))
	assert.InDelta(t, 10.0, m.FrameTime(), 1e-9)
	assert.False(t, m.Update(0.020))
	assert.InDelta(t, 15.0, m.FrameTime(), 1e-9)

	// Older frames fall out of the window.
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.004)
	}
	assert.InDelta(t, 4.0, m.FrameTime(), 1e-9)

	m = NewMetrics()
	reported := false
	for i := 0; i < 101; i++ {
		if m.Update(0.010) {
			reported = true
		}
	}
	require.True(t, reported)
	fps, frameTime := m.Frame()
	assert.InDelta(t, 100.0, fps, 1.0)
	assert.InDelta(t, 10.0, frameTime, 1e-9)
}

func TestClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := &Clock{now: func() time.Time { return now }}

	// Not started: updates are ignored.
	now = now.Add(time.Second)
	c.Update()
	assert.Zero(t, c.Elapsed())

	c.Start()
	now = now.Add(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, level)
	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}
