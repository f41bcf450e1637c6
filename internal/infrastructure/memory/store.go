package memory

import (
	"context"
	"sync"

	"github.com/grupoandino/almacen-api/internal/domain"
	"github.com/grupoandino/almacen-api/internal/domain/entity"
	"github.com/grupoandino/almacen-api/internal/domain/repository"
)

// Store almacén de documentos en memoria para tests y demos. Guarda valores
// (no punteros): leer devuelve copias y escribir reemplaza, igual que un
// almacén de documentos real con put/replace.
type Store struct {
	mu sync.Mutex

	materials   map[string]entity.Material
	lots        map[string]entity.Lot
	entries     []entity.LedgerEntry
	alerts      map[string]entity.StockAlert
	pos         map[string]entity.PurchaseOrder
	grns        map[string]entity.GRN
	inspections map[string]entity.QualityInspection
	invoices    map[string]entity.StoreInvoice
	returns     map[string]entity.VendorReturn
	suppliers   map[string]entity.Supplier
}

// NewStore crea el almacén vacío.
func NewStore() *Store {
	return &Store{
		materials:   make(map[string]entity.Material),
		lots:        make(map[string]entity.Lot),
		alerts:      make(map[string]entity.StockAlert),
		pos:         make(map[string]entity.PurchaseOrder),
		grns:        make(map[string]entity.GRN),
		inspections: make(map[string]entity.QualityInspection),
		invoices:    make(map[string]entity.StoreInvoice),
		returns:     make(map[string]entity.VendorReturn),
		suppliers:   make(map[string]entity.Supplier),
	}
}

// snapshot copia profunda del estado, para rollback.
func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.materials {
		c.materials[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	c.entries = append([]entity.LedgerEntry(nil), s.entries...)
	for k, v := range s.alerts {
		c.alerts[k] = v
	}
	for k, v := range s.pos {
		v.Items = append([]entity.POItem(nil), v.Items...)
		c.pos[k] = v
	}
	for k, v := range s.grns {
		v.Items = append([]entity.GRNItem(nil), v.Items...)
		c.grns[k] = v
	}
	for k, v := range s.inspections {
		v.Lines = append([]entity.InspectionLine(nil), v.Lines...)
		c.inspections[k] = v
	}
	for k, v := range s.invoices {
		v.Items = append([]entity.InvoiceItem(nil), v.Items...)
		c.invoices[k] = v
	}
	for k, v := range s.returns {
		v.Items = append([]entity.ReturnItem(nil), v.Items...)
		c.returns[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	return c
}

// restore repone el estado desde un snapshot.
func (s *Store) restore(c *Store) {
	s.materials = c.materials
	s.lots = c.lots
	s.entries = c.entries
	s.alerts = c.alerts
	s.pos = c.pos
	s.grns = c.grns
	s.inspections = c.inspections
	s.invoices = c.invoices
	s.returns = c.returns
	s.suppliers = c.suppliers
}

// Repos devuelve el juego de repositorios con bloqueo por operación (para
// lecturas fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return s.repos(true)
}

func (s *Store) repos(lock bool) repository.Repos {
	return repository.Repos{
		Materials:      &materialRepo{store: s, lock: lock},
		Lots:           &lotRepo{store: s, lock: lock},
		Ledger:         &ledgerRepo{store: s, lock: lock},
		Alerts:         &alertRepo{store: s, lock: lock},
		PurchaseOrders: &poRepo{store: s, lock: lock},
		GRNs:           &grnRepo{store: s, lock: lock},
		Inspections:    &inspectionRepo{store: s, lock: lock},
		Invoices:       &invoiceRepo{store: s, lock: lock},
		Returns:        &returnRepo{store: s, lock: lock},
		Suppliers:      &supplierRepo{store: s, lock: lock},
	}
}

// Asegurar el cumplimiento del puerto.
var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner lote atómico sobre el almacén en memoria: serializa las
// transacciones con un lock global y repone el snapshot si fn falla
// (todo-o-nada por transición). InjectConflicts fuerza ErrConflict en las
// próximas N ejecuciones, para probar la disciplina de reintento.
type TxRunner struct {
	store           *Store
	injectConflicts int
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// InjectConflicts fuerza ErrConflict en las próximas n transacciones.
func (t *TxRunner) InjectConflicts(n int) {
	t.injectConflicts = n
}

// Run ejecuta fn con repositorios atados a la transacción.
func (t *TxRunner) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.injectConflicts > 0 {
		t.injectConflicts--
		return domain.ErrConflict
	}

	snap := t.store.snapshot()
	if err := fn(t.store.repos(false)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
