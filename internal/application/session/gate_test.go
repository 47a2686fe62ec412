package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/session"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// fakeProvider proveedor push controlado desde el test.
type fakeProvider struct {
	mu           sync.Mutex
	listener     repository.SessionListener
	registered   int
	unregistered int
	endErr       error
	endCalls     int
}

func (p *fakeProvider) OnSessionChange(_ context.Context, _ string, fn repository.SessionListener) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
	p.registered++
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listener = nil
		p.unregistered++
	}, nil
}

func (p *fakeProvider) EndSession(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endCalls++
	return p.endErr
}

func (p *fakeProvider) emit(identity *entity.Identity) {
	p.mu.Lock()
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn(identity)
	}
}

func recv(t *testing.T, ch <-chan entity.SessionState) entity.SessionState {
	t.Helper()
	select {
	case st, ok := <-ch:
		require.True(t, ok, "el canal no debe estar cerrado")
		return st
	case <-time.After(time.Second):
		t.Fatal("timeout esperando estado de sesión")
		return entity.SessionState{}
	}
}

var alice = &entity.Identity{UID: "uid-alice", DisplayName: "Alice"}

func TestGate_EmiteLoadingYLuegoSignedIn(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	assert.Equal(t, entity.SessionUninitialized, g.Current().Status)

	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	assert.Equal(t, entity.SessionLoading, recv(t, ch).Status)

	p.emit(alice)
	st := recv(t, ch)
	assert.True(t, st.SignedIn())
	assert.Equal(t, "uid-alice", st.Identity.UID)
	assert.Equal(t, st, g.Current())
}

func TestGate_PrimerCallbackSinIdentidad_SignedOut(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	recv(t, ch)
	p.emit(nil)
	assert.Equal(t, entity.SessionSignedOut, recv(t, ch).Status)
}

func TestGate_TransicionesSignedInSignedOut(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	recv(t, ch)
	p.emit(alice)
	assert.Equal(t, entity.SessionSignedIn, recv(t, ch).Status)
	p.emit(alice) // sin cambio: no se re-emite
	p.emit(nil)
	assert.Equal(t, entity.SessionSignedOut, recv(t, ch).Status)
	p.emit(alice)
	assert.Equal(t, entity.SessionSignedIn, recv(t, ch).Status)
}

func TestGate_UnaSolaSuscripcion(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	_, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)

	_, _, err = g.Subscribe(context.Background())
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	assert.Equal(t, 1, p.registered)

	cancel()
}

func TestGate_CancelDesregistraYCierraCanal(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	recv(t, ch)

	cancel()
	cancel() // idempotente

	_, ok := <-ch
	assert.False(t, ok, "el canal debe cerrarse al desuscribir")
	assert.Equal(t, 1, p.unregistered)

	// Reiniciable: una nueva suscripción vuelve a empezar en Loading.
	ch2, cancel2, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel2()
	assert.Equal(t, entity.SessionLoading, recv(t, ch2).Status)
	assert.Equal(t, 2, p.registered)
}

func TestGate_CancelarContextoDesuscribe(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := g.Subscribe(ctx)
	require.NoError(t, err)
	recv(t, ch)

	cancel()
	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.unregistered == 1
	}, time.Second, 10*time.Millisecond)
	for range ch {
	}
}

func TestGate_SignOutFallido_NoCambiaEstado(t *testing.T) {
	p := &fakeProvider{endErr: errors.New("red caída")}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()
	recv(t, ch)
	p.emit(alice)
	recv(t, ch)

	err = g.SignOut(context.Background())
	assert.EqualError(t, err, "red caída")
	assert.Equal(t, entity.SessionSignedIn, g.Current().Status, "no se fuerza SignedOut de forma especulativa")
}

func TestGate_SignOutExitoso_EsperaAlProveedor(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()
	recv(t, ch)
	p.emit(alice)
	recv(t, ch)

	require.NoError(t, g.SignOut(context.Background()))
	assert.Equal(t, 1, p.endCalls)
	assert.Equal(t, entity.SessionSignedIn, g.Current().Status)

	p.emit(nil)
	assert.Equal(t, entity.SessionSignedOut, recv(t, ch).Status)
}

func TestGate_CallbackTrasCancel_SeDescarta(t *testing.T) {
	p := &fakeProvider{}
	g := session.NewGate(p, "sid-1", nil)
	ch, cancel, err := g.Subscribe(context.Background())
	require.NoError(t, err)
	recv(t, ch)

	p.mu.Lock()
	stale := p.listener
	p.mu.Unlock()
	cancel()

	stale(alice)
	assert.Equal(t, entity.SessionLoading, g.Current().Status)
}
