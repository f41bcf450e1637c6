package events

import (
	"sync"
	"time"
)

// Colecciones sobre las que se publican cambios.
const (
	TopicMaterials = "materials"
	TopicAlerts    = "alerts"
	TopicLots      = "lots"
	TopicLedger    = "ledger"
	TopicDocuments = "documents"
)

// Event cambio publicado por el motor después de confirmar una transacción.
type Event struct {
	Topic   string      `json:"topic"`
	Type    string      `json:"type"` // created, updated, resolved, ...
	ID      string      `json:"id"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// Feed feed de cambios en proceso para capas de presentación (capacidad
// "subscribe" del almacén de documentos). Los suscriptores lentos pierden
// eventos en vez de bloquear al motor; pueden resuscribirse y releer estado.
type Feed struct {
	mu    sync.RWMutex
	subs  map[int]chan Event
	next  int
	depth int // buffer por suscriptor
}

// NewFeed crea el feed. depth es el tamaño del buffer por suscriptor.
func NewFeed(depth int) *Feed {
	if depth <= 0 {
		depth = 64
	}
	return &Feed{subs: make(map[int]chan Event), depth: depth}
}

// Publish entrega el evento a todos los suscriptores sin bloquear.
func (f *Feed) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- e:
		default: // suscriptor saturado: descartar
		}
	}
}

// Subscribe registra un suscriptor; cancel lo retira y cierra el canal.
func (f *Feed) Subscribe() (events <-chan Event, cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	ch := make(chan Event, f.depth)
	f.subs[id] = ch
	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}
