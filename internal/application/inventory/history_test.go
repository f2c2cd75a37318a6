package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/anbar-api/internal/application/inventory"
)

func TestHistory_OrdenDescendenteYPiezaEliminada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r1 := e.addPart(t, "R1", "RES-1", "A1", 10)
	e.addPart(t, "LED", "LED-R", "A2", 10)

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	step := 0
	e.ledger.SetClock(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	})
	_, err := apply(t, e, "RES-1", "in", 1)
	require.NoError(t, err)
	_, err = apply(t, e, "LED-R", "out", 2)
	require.NoError(t, err)
	_, err = apply(t, e, "RES-1", "out", 3)
	require.NoError(t, err)

	require.NoError(t, e.catalog.Delete(ctx, r1.ID))

	entries, err := e.history.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 3, entries[0].Quantity, "el más reciente primero")
	assert.Equal(t, 1, entries[2].Quantity)

	assert.Equal(t, inventory.UnknownPartLabel, entries[0].PartName)
	assert.False(t, entries[0].PartKnown)
	assert.Equal(t, "LED", entries[1].PartName)
	assert.True(t, entries[1].PartKnown)
}

func TestHistory_FiltroPorSKU(t *testing.T) {
	e := newEnv(t)
	e.addPart(t, "R1", "RES-1", "A1", 10)
	e.addPart(t, "LED", "LED-R", "A2", 10)
	_, _ = apply(t, e, "RES-1", "in", 1)
	_, _ = apply(t, e, "LED-R", "in", 1)

	entries, err := e.history.List(context.Background(), "led-r")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "LED-R", entries[0].PartSKU)
}

func TestDashboard_Totales(t *testing.T) {
	e := newEnv(t)
	e.addPart(t, "R1", "RES-1", "A1", 10)
	e.addPart(t, "R2", "RES-2", "A1", 5)
	e.addPart(t, "LED", "LED-R", "B3", 0)

	s, err := e.dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.UniqueParts)
	assert.Equal(t, int64(15), s.TotalQuantity)
	assert.Equal(t, 2, s.UniqueLocations)
	assert.NotEmpty(t, s.Display.TotalQuantity)
}
