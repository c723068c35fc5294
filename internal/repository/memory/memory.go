// Package memory provides in-memory implementations of the service store
// ports. They back the unit tests and mirror the semantics of the mongo
// repositories, including the unique product code and the cart version
// check.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/repository"
)

type ProductStore struct {
	mu       sync.RWMutex
	order    []primitive.ObjectID
	products map[primitive.ObjectID]entity.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[primitive.ObjectID]entity.Product)}
}

func matches(f entity.ProductFilter, p entity.Product) bool {
	switch {
	case f.Category != nil:
		return p.Category == *f.Category
	case f.Status != nil:
		return p.Status == *f.Status
	case f.StockGT != nil:
		return p.Stock > *f.StockGT
	case f.StockEq != nil:
		return p.Stock == *f.StockEq
	case f.Text != "":
		text := strings.ToLower(f.Text)
		if strings.Contains(strings.ToLower(p.Title), text) ||
			strings.Contains(strings.ToLower(p.Description), text) {
			return true
		}
		return f.TextInCategory && strings.Contains(strings.ToLower(p.Category), text)
	default:
		return true
	}
}

func (s *ProductStore) matching(f entity.ProductFilter) []entity.Product {
	var result []entity.Product
	for _, id := range s.order {
		if p, ok := s.products[id]; ok && matches(f, p) {
			result = append(result, p)
		}
	}
	return result
}

func (s *ProductStore) List(_ context.Context, q entity.ProductQuery) ([]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.matching(q.Filter)
	switch q.Sort {
	case entity.SortAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case entity.SortDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	}

	if q.Skip >= int64(len(result)) {
		return []entity.Product{}, nil
	}
	result = result[q.Skip:]
	if q.Limit > 0 && int64(len(result)) > q.Limit {
		result = result[:q.Limit]
	}
	return append([]entity.Product{}, result...), nil
}

func (s *ProductStore) Count(_ context.Context, f entity.ProductFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(f))), nil
}

func (s *ProductStore) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, entity.NotFoundf("Product not found")
	}
	return &p, nil
}

func (s *ProductStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[primitive.ObjectID]entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (s *ProductStore) Create(_ context.Context, p *entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.Code == p.Code {
			return entity.Conflictf("Product code %q already exists", p.Code)
		}
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *ProductStore) Update(_ context.Context, id primitive.ObjectID, upd entity.ProductUpdate) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, entity.NotFoundf("Product not found")
	}

	if upd.Code != nil && *upd.Code != p.Code {
		for _, existing := range s.products {
			if existing.Code == *upd.Code {
				return nil, entity.Conflictf("Product code already exists")
			}
		}
		p.Code = *upd.Code
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Stock != nil {
		p.Stock = *upd.Stock
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Thumbnails != nil {
		p.Thumbnails = *upd.Thumbnails
	}
	p.UpdatedAt = time.Now().UTC()

	s.products[id] = p
	return &p, nil
}

func (s *ProductStore) Delete(_ context.Context, id primitive.ObjectID) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, entity.NotFoundf("Product not found")
	}
	delete(s.products, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &p, nil
}

type CartStore struct {
	mu    sync.RWMutex
	carts map[primitive.ObjectID]entity.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[primitive.ObjectID]entity.Cart)}
}

func copyLines(lines []entity.CartLine) []entity.CartLine {
	return append([]entity.CartLine{}, lines...)
}

func (s *CartStore) Create(_ context.Context) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	cart := entity.Cart{
		ID:        primitive.NewObjectID(),
		Products:  []entity.CartLine{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.carts[cart.ID] = cart
	return &cart, nil
}

func (s *CartStore) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, entity.NotFoundf("Cart not found")
	}
	cart.Products = copyLines(cart.Products)
	return &cart, nil
}

func (s *CartStore) SaveProducts(_ context.Context, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.carts[cart.ID]
	if !ok || stored.Version != cart.Version {
		return repository.ErrVersionConflict
	}

	stored.Products = copyLines(cart.Products)
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	s.carts[cart.ID] = stored
	cart.Version++
	return nil
}

func (s *CartStore) PullProduct(_ context.Context, productID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cart := range s.carts {
		kept := make([]entity.CartLine, 0, len(cart.Products))
		for _, line := range cart.Products {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		if len(kept) != len(cart.Products) {
			cart.Products = kept
			cart.Version++
			s.carts[id] = cart
		}
	}
	return nil
}
