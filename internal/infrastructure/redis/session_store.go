package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

var (
	_ repository.SessionRepository = (*SessionStore)(nil)
	_ repository.IdentityProvider  = (*SessionStore)(nil)
)

const (
	sessionPrefix = "session:"
	eventsPrefix  = "session-events:"
	eventEnded    = "ended"
)

// SessionStore guarda las sesiones como JSON con TTL igual a la expiración del token y avisa
// los cambios por el canal session-events:<sid>. Actúa como proveedor de identidad.
type SessionStore struct {
	rdb *goredis.Client
	log *logger.Logger
}

// NewSessionStore construye el store.
func NewSessionStore(rdb *goredis.Client, log *logger.Logger) *SessionStore {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionStore{rdb: rdb, log: log}
}

func sessionKey(sid string) string { return sessionPrefix + sid }
func eventsChannel(sid string) string { return eventsPrefix + sid }

// Create persiste la sesión hasta ExpiresAt.
func (s *SessionStore) Create(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("crear sesión: ya expirada")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal sesión: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// Get devuelve nil, nil si la sesión no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer sesión: %w", err)
	}
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal sesión: %w", err)
	}
	return &session, nil
}

// EndSession borra la sesión y publica el cambio. Terminar una sesión inexistente no es error.
func (s *SessionStore) EndSession(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("borrar sesión: %w", err)
	}
	if err := s.rdb.Publish(ctx, eventsChannel(sessionID), eventEnded).Err(); err != nil {
		return fmt.Errorf("publicar fin de sesión: %w", err)
	}
	return nil
}

// OnSessionChange se suscribe a los eventos de la sesión. fn recibe primero el estado actual y
// luego uno nuevo por cada evento publicado o cuando vence el TTL de la sesión. Las llamadas a
// fn son secuenciales y ocurren en una goroutine propia.
func (s *SessionStore) OnSessionChange(ctx context.Context, sessionID string, fn repository.SessionListener) (func(), error) {
	ps := s.rdb.Subscribe(ctx, eventsChannel(sessionID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("suscribir eventos de sesión: %w", err)
	}

	// Se lee después de suscribirse para no perder un fin de sesión intermedio.
	identity, ttl, err := s.snapshot(ctx, sessionID)
	if err != nil {
		_ = ps.Close()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.watch(runCtx, sessionID, ps.Channel(), fn, identity, ttl)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = ps.Close()
			<-done
		})
	}, nil
}

func (s *SessionStore) watch(
	ctx context.Context,
	sessionID string,
	msgs <-chan *goredis.Message,
	fn repository.SessionListener,
	identity *entity.Identity,
	ttl time.Duration,
) {
	var timer *time.Timer
	var expiry <-chan time.Time
	arm := func(d time.Duration) {
		if timer != nil {
			timer.Stop()
		}
		timer, expiry = nil, nil
		if d > 0 {
			timer = time.NewTimer(d)
			expiry = timer.C
		}
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	arm(ttl)
	fn(identity)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-msgs:
			if !ok {
				return
			}
		case <-expiry:
		}

		identity, ttl, err := s.snapshot(ctx, sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("no se pudo releer la sesión")
			continue
		}
		arm(ttl)
		if ctx.Err() != nil {
			return
		}
		fn(identity)
	}
}

// snapshot devuelve la identidad de la sesión (nil si no existe) y el TTL restante.
func (s *SessionStore) snapshot(ctx context.Context, sessionID string) (*entity.Identity, time.Duration, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil || session == nil {
		return nil, 0, err
	}
	ttl, err := s.rdb.PTTL(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("leer TTL de sesión: %w", err)
	}
	if ttl == 0 {
		// vence en menos de 1ms: revisar enseguida
		ttl = time.Millisecond
	}
	id := session.Identity
	return &id, ttl, nil
}
