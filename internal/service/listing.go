package service

import (
	"net/url"
	"strconv"
	"strings"

	"shop-backend-service/internal/entity"
)

const defaultLimit = 10

// ListParams are the raw listing parameters from the query string.
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Query string
}

// ParseListParams applies the listing defaults: limit 10 and page 1, both
// coerced to at least 1. Unparsable numbers fall back to the default.
func ParseListParams(values url.Values) ListParams {
	limit, err := strconv.Atoi(values.Get("limit"))
	if err != nil || limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return ListParams{
		Page:  page,
		Limit: limit,
		Sort:  values.Get("sort"),
		Query: values.Get("query"),
	}
}

func sortOrder(sort string) int {
	switch sort {
	case "asc":
		return entity.SortAsc
	case "desc":
		return entity.SortDesc
	default:
		return entity.SortNone
	}
}

// buildFilter translates the mini filter language into a structured filter.
// A "key:value" expression selects on a recognized field; an unrecognized
// key, or an expression without a colon, becomes a case-insensitive
// substring search (the colon-free form also searches the category).
func buildFilter(q string) entity.ProductFilter {
	if q == "" {
		return entity.ProductFilter{}
	}

	if key, value, ok := strings.Cut(q, ":"); ok {
		switch key {
		case "category":
			return entity.ProductFilter{Category: &value}
		case "status":
			status := value == "true" || value == "1"
			return entity.ProductFilter{Status: &status}
		case "stock":
			if rest, found := strings.CutPrefix(value, ">"); found {
				n, _ := strconv.Atoi(rest)
				return entity.ProductFilter{StockGT: &n}
			}
			n, _ := strconv.Atoi(value)
			return entity.ProductFilter{StockEq: &n}
		default:
			return entity.ProductFilter{Text: q}
		}
	}

	return entity.ProductFilter{Text: q, TextInCategory: true}
}

// Listing is one page of a product listing plus its pagination metadata.
type Listing struct {
	Products    []entity.Product
	TotalDocs   int64
	TotalPages  int
	Page        int
	Limit       int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    *int
	NextPage    *int
}

func paginate(total int64, params ListParams) *Listing {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	l := &Listing{
		TotalDocs:   total,
		TotalPages:  totalPages,
		Page:        params.Page,
		Limit:       params.Limit,
		HasPrevPage: params.Page > 1,
		HasNextPage: params.Page < totalPages,
	}
	if l.HasPrevPage {
		prev := params.Page - 1
		l.PrevPage = &prev
	}
	if l.HasNextPage {
		next := params.Page + 1
		l.NextPage = &next
	}
	return l
}
