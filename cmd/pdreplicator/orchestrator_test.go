// cmd/pdreplicator/orchestrator_test.go
package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/pd-replicator/internal/pd"
	"github.com/tamzrod/pd-replicator/internal/poller"
	"github.com/tamzrod/pd-replicator/internal/status"
)

type fakeData struct{ n int }

func (f *fakeData) Write(poller.PollResult) error { f.n++; return nil }

type fakeStatus struct{ snaps []status.Snapshot }

func (f *fakeStatus) WriteStatus(s status.Snapshot) error {
	f.snaps = append(f.snaps, s)
	return nil
}

func (f *fakeStatus) last() status.Snapshot { return f.snaps[len(f.snaps)-1] }

func newTestOrchestrator() (*orchestrator, *fakeData, *fakeStatus) {
	d, s := &fakeData{}, &fakeStatus{}
	return newOrchestrator("pd-1", d, s, zap.NewNop()), d, s
}

func TestOrchestrator_OKThenError(t *testing.T) {
	o, d, s := newTestOrchestrator()

	o.handle(poller.PollResult{})
	require.Len(t, s.snaps, 1)
	assert.Equal(t, status.HealthOK, s.last().Health)

	codecErr := fmt.Errorf("poller: decode: %w", &pd.Error{Kind: pd.KindValueOutOfRange})
	o.handle(poller.PollResult{Err: codecErr})
	assert.Equal(t, status.HealthError, s.last().Health)
	assert.Equal(t, uint16(0x0102), s.last().LastErrorCode)

	o.handle(poller.PollResult{Err: errors.New("i2c: nack")})
	assert.Equal(t, uint16(1), s.last().LastErrorCode)

	assert.Equal(t, 3, d.n)
}

func TestOrchestrator_UnchangedHealthWritesOnce(t *testing.T) {
	o, _, s := newTestOrchestrator()

	o.handle(poller.PollResult{})
	o.handle(poller.PollResult{})

	assert.Len(t, s.snaps, 1)
}

func TestOrchestrator_Protection(t *testing.T) {
	o, _, s := newTestOrchestrator()

	res := poller.PollResult{}
	res.Telemetry.Status.OCP = true
	o.handle(res)

	assert.Equal(t, status.HealthProtection, s.last().Health)
}

func TestOrchestrator_SecondsInError(t *testing.T) {
	o, _, s := newTestOrchestrator()

	o.handle(poller.PollResult{Err: errors.New("bus")})
	o.tick()
	o.tick()
	assert.Equal(t, uint16(2), s.last().SecondsInError)

	o.handle(poller.PollResult{})
	assert.Equal(t, uint16(0), s.last().SecondsInError)

	n := len(s.snaps)
	o.tick()
	assert.Len(t, s.snaps, n, "no tick while healthy")
}

func TestOrchestrator_SecondsInErrorSaturates(t *testing.T) {
	o, _, _ := newTestOrchestrator()
	o.snap = status.Snapshot{Health: status.HealthError, SecondsInError: 0xFFFF}

	o.tick()
	assert.Equal(t, uint16(0xFFFF), o.snap.SecondsInError)
}

func TestOrchestrator_StatusDisabled(t *testing.T) {
	o := newOrchestrator("pd-1", &fakeData{}, nil, zap.NewNop())
	o.handle(poller.PollResult{Err: errors.New("bus")})
	o.tick()
	assert.Equal(t, status.HealthError, o.snap.Health)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, uint16(0), errorCode(nil))
	assert.Equal(t, uint16(1), errorCode(errors.New("x")))
	assert.Equal(t, uint16(0x0104), errorCode(&pd.Error{Kind: pd.KindPositionOutOfBounds}))
}
