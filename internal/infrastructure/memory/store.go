// Package memory implementa repository.CollectionStore en memoria.
// Usado en tests y con STORE_BACKEND=memory; los datos se pierden al terminar el proceso.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
)

// ErrInjected fallo simulado configurado con FailSave.
var ErrInjected = errors.New("memory: fallo simulado")

// Store colecciones en memoria protegidas por un mutex.
type Store struct {
	mu       sync.RWMutex
	data     map[entity.Kind][]json.RawMessage
	corrupt  map[entity.Kind]bool
	failSave map[entity.Kind]error
	subs     map[chan entity.Kind]struct{}
}

var (
	_ repository.CollectionStore = (*Store)(nil)
	_ repository.BatchStore      = (*Store)(nil)
	_ repository.ChangeNotifier  = (*Store)(nil)
)

// New crea un store vacío.
func New() *Store {
	return &Store{
		data:     make(map[entity.Kind][]json.RawMessage),
		corrupt:  make(map[entity.Kind]bool),
		failSave: make(map[entity.Kind]error),
		subs:     make(map[chan entity.Kind]struct{}),
	}
}

// Load devuelve una copia de los registros.
func (s *Store) Load(ctx context.Context, kind entity.Kind) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corrupt[kind] {
		return nil, repository.ErrCorruptCollection
	}
	return cloneRecords(s.data[kind]), nil
}

// Save reemplaza la colección.
func (s *Store) Save(ctx context.Context, kind entity.Kind, records []json.RawMessage) error {
	return s.SaveBatch(ctx, repository.Write{Kind: kind, Records: records})
}

// SaveBatch aplica todas las escrituras o ninguna.
func (s *Store) SaveBatch(ctx context.Context, writes ...repository.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	for _, w := range writes {
		if err := s.failSave[w.Kind]; err != nil {
			s.mu.Unlock()
			return err
		}
	}
	for _, w := range writes {
		s.data[w.Kind] = cloneRecords(w.Records)
		delete(s.corrupt, w.Kind)
	}
	// Envíos no bloqueantes bajo el lock: un canal nunca se cierra con un envío en curso.
	for _, w := range writes {
		for ch := range s.subs {
			select {
			case ch <- w.Kind:
			default: // suscriptor lento: el aviso se pierde
			}
		}
	}
	s.mu.Unlock()
	return nil
}

// Subscribe devuelve un canal con los avisos de cambio hasta que ctx se cancele.
func (s *Store) Subscribe(ctx context.Context) (<-chan entity.Kind, error) {
	ch := make(chan entity.Kind, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}

// FailSave hace que los guardados de kind devuelvan err (nil restablece). Para tests.
func (s *Store) FailSave(kind entity.Kind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failSave, kind)
		return
	}
	s.failSave[kind] = err
}

// Corrupt marca la colección como ilegible hasta el próximo guardado. Para tests.
func (s *Store) Corrupt(kind entity.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrupt[kind] = true
}

// Put escribe registros crudos sin pasar por el adaptador. Para tests.
func (s *Store) Put(kind entity.Kind, records ...json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[kind] = cloneRecords(records)
}

func cloneRecords(in []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
