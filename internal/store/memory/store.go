package memory

import (
	"sync"

	"github.com/fekuna/omnipos-wms-service/internal/model"
)

// Data is the full state of the in-memory ledger store.
type Data struct {
	Categories    map[string]model.Category
	RackLocations map[string]model.RackLocation
	Products      map[string]model.Product
	Movements     []model.InventoryMovement
	Orders        map[string]model.Order
	OrderSeq      []string // order ids in creation order
}

// Store serializes every read and write behind one lock. Writes run against a
// copy of the state that replaces the live state only when fn returns nil, so a
// failed write leaves nothing behind.
type Store struct {
	mu   sync.RWMutex
	data *Data
}

func New() *Store {
	return &Store{
		data: &Data{
			Categories:    map[string]model.Category{},
			RackLocations: map[string]model.RackLocation{},
			Products:      map[string]model.Product{},
			Movements:     []model.InventoryMovement{},
			Orders:        map[string]model.Order{},
			OrderSeq:      []string{},
		},
	}
}

// Read runs fn under a shared lock. fn must not mutate d.
func (s *Store) Read(fn func(d *Data) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) Write(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (d *Data) clone() *Data {
	out := &Data{
		Categories:    make(map[string]model.Category, len(d.Categories)),
		RackLocations: make(map[string]model.RackLocation, len(d.RackLocations)),
		Products:      make(map[string]model.Product, len(d.Products)),
		Orders:        make(map[string]model.Order, len(d.Orders)),
		// Full slice expression forces append to copy instead of writing into the live backing array.
		Movements: d.Movements[:len(d.Movements):len(d.Movements)],
		OrderSeq:  d.OrderSeq[:len(d.OrderSeq):len(d.OrderSeq)],
	}
	for k, v := range d.Categories {
		out.Categories[k] = v
	}
	for k, v := range d.RackLocations {
		out.RackLocations[k] = v
	}
	for k, v := range d.Products {
		out.Products[k] = v
	}
	for k, v := range d.Orders {
		out.Orders[k] = v
	}
	return out
}

// Paginate returns the page slice bounds for total rows. A non-positive pageSize returns everything.
func Paginate(total, page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, total
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
