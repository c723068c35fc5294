package entity

// Sort order for product listings, by price.
const (
	SortNone = 0
	SortAsc  = 1
	SortDesc = -1
)

// ProductFilter is the structured form of the listing filter expression.
// At most one of the pointer fields is set for a key:value expression;
// Text holds a case-insensitive substring match over title and description,
// plus category when TextInCategory is set.
type ProductFilter struct {
	Category       *string
	Status         *bool
	StockGT        *int
	StockEq        *int
	Text           string
	TextInCategory bool
}

// ProductQuery is what the product store executes for a listing page.
type ProductQuery struct {
	Filter ProductFilter
	Sort   int
	Skip   int64
	Limit  int64
}
