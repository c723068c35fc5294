package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shop-backend-service/internal/entity"
	"shop-backend-service/internal/repository"
)

type CartService struct {
	cartRepo    CartStore
	productRepo ProductStore
}

// NewCartService creates a new instance of CartService.
func NewCartService(cartRepo CartStore, productRepo ProductStore) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *CartService) Create(ctx context.Context) (*entity.Cart, error) {
	return s.cartRepo.Create(ctx)
}

// Get returns the cart with every line expanded to its product document.
func (s *CartService) Get(ctx context.Context, cartID string) (*entity.CartView, error) {
	oid, err := parseObjectID(cartID, "cart")
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, cart)
}

// AddProduct adds qty of the product to the cart, incrementing the
// existing line when the product is already present.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID string, qty int) (*entity.CartView, error) {
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}

	if _, err := s.productRepo.GetByID(ctx, pid); err != nil {
		return nil, err
	}

	return s.apply(ctx, cartID, func(cart *entity.Cart) error {
		for i := range cart.Products {
			if cart.Products[i].ProductID == pid {
				cart.Products[i].Quantity += qty
				return nil
			}
		}
		cart.Products = append(cart.Products, entity.CartLine{ProductID: pid, Quantity: qty})
		return nil
	})
}

// RemoveProduct deletes the product's line from the cart. Removing a
// product that is not in the cart is a no-op.
func (s *CartService) RemoveProduct(ctx context.Context, cartID, productID string) (*entity.CartView, error) {
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, cartID, func(cart *entity.Cart) error {
		kept := cart.Products[:0]
		for _, line := range cart.Products {
			if line.ProductID != pid {
				kept = append(kept, line)
			}
		}
		cart.Products = kept
		return nil
	})
}

// ReplaceProducts wholesale-replaces the cart's line list. Duplicate
// product ids in the input are merged by summing their quantities, the
// same policy the single-item add path applies.
func (s *CartService) ReplaceProducts(ctx context.Context, cartID string, inputs []entity.CartLineInput) (*entity.CartView, error) {
	lines := make([]entity.CartLine, 0, len(inputs))
	index := make(map[primitive.ObjectID]int, len(inputs))

	for _, in := range inputs {
		pid, err := primitive.ObjectIDFromHex(in.Product)
		if err != nil {
			return nil, entity.Validationf("Invalid product id in array")
		}
		qty := 1
		if in.Quantity != nil {
			if *in.Quantity < 1 {
				return nil, entity.Validationf("Quantity must be >= 1")
			}
			qty = *in.Quantity
		}
		if i, ok := index[pid]; ok {
			lines[i].Quantity += qty
			continue
		}
		index[pid] = len(lines)
		lines = append(lines, entity.CartLine{ProductID: pid, Quantity: qty})
	}

	return s.apply(ctx, cartID, func(cart *entity.Cart) error {
		cart.Products = lines
		return nil
	})
}

// SetQuantity sets the quantity of an existing cart line.
func (s *CartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*entity.CartView, error) {
	pid, err := parseObjectID(productID, "product")
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, entity.Validationf("Quantity must be >= 1")
	}

	return s.apply(ctx, cartID, func(cart *entity.Cart) error {
		for i := range cart.Products {
			if cart.Products[i].ProductID == pid {
				cart.Products[i].Quantity = quantity
				return nil
			}
		}
		return entity.NotFoundf("Product not in cart")
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, cartID string) (*entity.CartView, error) {
	return s.apply(ctx, cartID, func(cart *entity.Cart) error {
		cart.Products = []entity.CartLine{}
		return nil
	})
}

// apply runs load -> mutate -> conditional save, retrying once when a
// concurrent writer bumped the cart's version, then returns the expanded
// cart. The mutation runs again on the retry against the fresh state.
func (s *CartService) apply(ctx context.Context, cartID string, mutate func(*entity.Cart) error) (*entity.CartView, error) {
	oid, err := parseObjectID(cartID, "cart")
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		cart, err := s.cartRepo.GetByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if err := mutate(cart); err != nil {
			return nil, err
		}

		err = s.cartRepo.SaveProducts(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.expand(ctx, cart)
	}

	return nil, entity.Conflictf("Cart was modified concurrently, please retry")
}

// expand resolves every cart line to its full product document. Lines
// whose product no longer exists are dropped from the view.
func (s *CartService) expand(ctx context.Context, cart *entity.Cart) (*entity.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Products))
	for _, line := range cart.Products {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &entity.CartView{
		ID:        cart.ID,
		Products:  []entity.CartLineView{},
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Products {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}
		view.Products = append(view.Products, entity.CartLineView{
			Product:  product,
			Quantity: line.Quantity,
		})
	}
	return view, nil
}
