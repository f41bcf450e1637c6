package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/almacen-api/internal/infrastructure/events"
)

func TestFeed_PublicaYSuscribe(t *testing.T) {
	feed := events.NewFeed(4)
	ch, cancel := feed.Subscribe()
	defer cancel()

	feed.Publish(events.Event{Topic: events.TopicAlerts, Type: "created", ID: "a1"})

	select {
	case e := <-ch:
		assert.Equal(t, events.TopicAlerts, e.Topic)
		assert.Equal(t, "a1", e.ID)
		assert.False(t, e.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}
}

func TestFeed_SuscriptorSaturadoNoBloquea(t *testing.T) {
	feed := events.NewFeed(1)
	ch, cancel := feed.Subscribe()
	defer cancel()

	// El segundo Publish se descarta en vez de bloquear
	feed.Publish(events.Event{Topic: events.TopicLedger, ID: "e1"})
	feed.Publish(events.Event{Topic: events.TopicLedger, ID: "e2"})

	e := <-ch
	assert.Equal(t, "e1", e.ID)
	select {
	case e2 := <-ch:
		t.Fatalf("se esperaba descarte, llegó %s", e2.ID)
	default:
	}
}

func TestFeed_CancelCierraCanal(t *testing.T) {
	feed := events.NewFeed(1)
	ch, cancel := feed.Subscribe()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publicar tras cancelar no debe entrar en pánico
	feed.Publish(events.Event{Topic: events.TopicMaterials, ID: "m1"})
}
