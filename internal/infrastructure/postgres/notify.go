package postgres

import (
	"context"
	"errors"

	"github.com/jhoicas/anbar-api/internal/domain/entity"
)

// Subscribe escucha notifyChannel en una conexión dedicada del pool hasta que ctx se cancele.
func (s *Store) Subscribe(ctx context.Context) (<-chan entity.Kind, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}

	out := make(chan entity.Kind, 16)
	go func() {
		defer close(out)
		defer func() {
			// Cerrar en vez de devolver al pool: la conexión sigue en LISTEN.
			_ = conn.Conn().Close(context.Background())
			conn.Release()
		}()
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("escucha de cambios terminada")
				}
				return
			}
			kind := entity.Kind(n.Payload)
			if !kind.Valid() {
				continue
			}
			select {
			case out <- kind:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
