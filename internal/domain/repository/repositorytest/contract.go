// Package repositorytest verifica que una implementación de repository.CollectionStore
// cumple el contrato que espera el adaptador de persistencia.
package repositorytest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/domain/entity"
	"github.com/jhoicas/anbar-api/internal/domain/repository"
)

// Factory devuelve un store vacío y aislado para cada subtest.
type Factory func(t *testing.T) repository.CollectionStore

// Run ejecuta el contrato completo. Las capacidades opcionales (BatchStore, ChangeNotifier)
// se prueban solo si el store las implementa.
func Run(t *testing.T, newStore Factory) {
	t.Run("colección inexistente es vacía", func(t *testing.T) {
		got, err := newStore(t).Load(context.Background(), entity.KindParts)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("save reemplaza y conserva el orden", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Save(ctx, entity.KindParts, records(`{"sku":"A"}`, `{"sku":"B"}`, `{"sku":"C"}`)))
		require.NoError(t, s.Save(ctx, entity.KindParts, records(`{"sku":"C"}`, `{"sku":"A"}`)))

		got, err := s.Load(ctx, entity.KindParts)
		require.NoError(t, err)
		assertRecords(t, []string{`{"sku":"C"}`, `{"sku":"A"}`}, got)
	})

	t.Run("colecciones independientes", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Save(ctx, entity.KindParts, records(`{"sku":"A"}`)))
		require.NoError(t, s.Save(ctx, entity.KindShoppingItems, records(`{"title":"x"}`, `{"title":"y"}`)))

		got, err := s.Load(ctx, entity.KindParts)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		got, err = s.Load(ctx, entity.KindShoppingItems)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("guardar vacío deja la colección vacía", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Save(ctx, entity.KindTransactions, records(`{"id":"1"}`)))
		require.NoError(t, s.Save(ctx, entity.KindTransactions, nil))

		got, err := s.Load(ctx, entity.KindTransactions)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("contexto cancelado", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newStore(t).Load(ctx, entity.KindParts)
		assert.Error(t, err)
	})

	t.Run("lote", func(t *testing.T) {
		s := newStore(t)
		bs, ok := s.(repository.BatchStore)
		if !ok {
			t.Skip("el store no implementa BatchStore")
		}
		ctx := context.Background()
		require.NoError(t, bs.SaveBatch(ctx,
			repository.Write{Kind: entity.KindParts, Records: records(`{"sku":"A","quantity":5}`)},
			repository.Write{Kind: entity.KindTransactions, Records: records(`{"part_sku":"A"}`)},
		))
		got, err := s.Load(ctx, entity.KindParts)
		require.NoError(t, err)
		assertRecords(t, []string{`{"sku":"A","quantity":5}`}, got)
		got, err = s.Load(ctx, entity.KindTransactions)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("avisos de cambio", func(t *testing.T) {
		s := newStore(t)
		n, ok := s.(repository.ChangeNotifier)
		if !ok {
			t.Skip("el store no implementa ChangeNotifier")
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch, err := n.Subscribe(ctx)
		require.NoError(t, err)

		// Algunos backends registran la suscripción de forma asíncrona: se reintenta la escritura.
		deadline := time.After(5 * time.Second)
		tick := time.NewTicker(50 * time.Millisecond)
		defer tick.Stop()
		for {
			require.NoError(t, s.Save(ctx, entity.KindShoppingItems, records(`{"title":"x"}`)))
			select {
			case kind := <-ch:
				assert.Equal(t, entity.KindShoppingItems, kind)
				return
			case <-tick.C:
			case <-deadline:
				t.Fatal("no llegó el aviso de cambio")
			}
		}
	})
}

func records(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

// assertRecords compara por contenido JSON: los backends pueden reordenar claves o espacios.
func assertRecords(t *testing.T, want []string, got []json.RawMessage) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.JSONEq(t, want[i], string(got[i]), "registro %d", i)
	}
}
