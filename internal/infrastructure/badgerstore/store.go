// Package badgerstore implementa repository.CollectionStore sobre BadgerDB embebido.
//
// Cada colección se guarda como un único valor (arreglo JSON) bajo la clave "collections/<kind>",
// por lo que reemplazar una colección es una sola escritura atómica. SaveBatch usa una sola
// transacción para varias colecciones.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
)

const keyPrefix = "collections/"

// Config opciones de apertura.
type Config struct {
	// Path directorio de datos. Obligatorio salvo InMemory.
	Path       string
	InMemory   bool
	SyncWrites bool
	// GCInterval frecuencia del GC del value log (0 lo desactiva).
	GCInterval     time.Duration
	GCDiscardRatio float64
	Logger         zerolog.Logger
}

// DefaultConfig configuración persistente con escrituras síncronas.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
		Logger:         zerolog.Nop(),
	}
}

// InMemoryConfig configuración para tests.
func InMemoryConfig() Config {
	return Config{InMemory: true, Logger: zerolog.Nop()}
}

// Store colecciones en BadgerDB.
type Store struct {
	db   *badger.DB
	log  zerolog.Logger
	stop chan struct{}
	done chan struct{}
}

var (
	_ repository.CollectionStore = (*Store)(nil)
	_ repository.BatchStore      = (*Store)(nil)
	_ repository.ChangeNotifier  = (*Store)(nil)
)

// Open abre (o crea) la base de datos.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path requerido para base persistente")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("crear directorio %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{log: cfg.Logger.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("abrir badger: %w", err)
	}
	s := &Store{db: db, log: cfg.Logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return s, nil
}

// Close detiene el GC y cierra la base.
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	return s.db.Close()
}

func key(kind entity.Kind) []byte {
	return []byte(keyPrefix + kind.String())
}

// Load lee el arreglo JSON de la colección. Una clave ausente es una colección vacía.
func (s *Store) Load(ctx context.Context, kind entity.Kind) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []json.RawMessage
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(kind))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &records); err != nil {
				return fmt.Errorf("%w: %s: %v", repository.ErrCorruptCollection, kind, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// Save reemplaza la colección.
func (s *Store) Save(ctx context.Context, kind entity.Kind, records []json.RawMessage) error {
	return s.SaveBatch(ctx, repository.Write{Kind: kind, Records: records})
}

// SaveBatch escribe todas las colecciones en una sola transacción.
func (s *Store) SaveBatch(ctx context.Context, writes ...repository.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	blobs := make([][]byte, len(writes))
	for i, w := range writes {
		records := w.Records
		if records == nil {
			records = []json.RawMessage{}
		}
		b, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("serializar %s: %w", w.Kind, err)
		}
		blobs[i] = b
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for i, w := range writes {
			if err := txn.Set(key(w.Kind), blobs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Subscribe emite la colección modificada por cada escritura confirmada, hasta que ctx se cancele.
func (s *Store) Subscribe(ctx context.Context) (<-chan entity.Kind, error) {
	out := make(chan entity.Kind, 16)
	go func() {
		defer close(out)
		err := s.db.Subscribe(ctx, func(list *badger.KVList) error {
			for _, kv := range list.Kv {
				kind := entity.Kind(strings.TrimPrefix(string(kv.Key), keyPrefix))
				if !kind.Valid() {
					continue
				}
				select {
				case out <- kind:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}, []pb.Match{{Prefix: []byte(keyPrefix)}})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Msg("suscripción badger terminada")
		}
	}()
	return out, nil
}

func (s *Store) runGC(interval time.Duration, ratio float64) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Warn().Err(err).Msg("GC del value log")
			}
		}
	}
}

// badgerLogger adapta zerolog a badger.Logger.
type badgerLogger struct {
	log zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(trim(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(trim(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(trim(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(trim(format, args...))
}

func trim(format string, args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
