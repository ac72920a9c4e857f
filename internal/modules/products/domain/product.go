package domain

import (
	"strconv"

	listview "acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/shared/normalization"
)

const (
	ProductEntity  = "product"
	CategoryEntity = "productB"

	FieldKeyword      = "keyword"
	FieldProductName  = "productName"
	FieldCategoryName = "productBName"

	DefaultItemsPerPage         = 5
	DefaultCategoryItemsPerPage = 10

	emptyProducts   = "등록된 상품이 없습니다."
	emptyCategories = "등록된 대분류가 없습니다."
)

// PageSizes are the choices of the product page-size selector.
var PageSizes = []int{5, 10, 15, 20}

// Category is a top-level product classification (대분류).
type Category struct {
	Code string `json:"productBCode"`
	Name string `json:"productBName"`
}

// UnmarshalJSON accepts numeric or string codes.
func (c *Category) UnmarshalJSON(data []byte) error {
	raw, err := normalization.DecodeObject(data)
	if err != nil {
		return err
	}
	*c = NormalizeCategory(raw)
	return nil
}

func NormalizeCategory(raw map[string]any) Category {
	return Category{
		Code: normalization.AsString(raw["productBCode"]),
		Name: normalization.AsString(raw["productBName"]),
	}
}

// Product is one record of GET /product. Category is nil when the backend omits product_b.
type Product struct {
	Code     string    `json:"productCode"`
	Name     string    `json:"productName"`
	Price    float64   `json:"productPrice"`
	Quantity int       `json:"productEa"`
	Category *Category `json:"product_b,omitempty"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	raw, err := normalization.DecodeObject(data)
	if err != nil {
		return err
	}
	*p = NormalizeProduct(raw)
	return nil
}

// NormalizeProduct constructs a Product from an arbitrary map payload.
func NormalizeProduct(raw map[string]any) Product {
	product := Product{
		Code:     normalization.AsString(raw["productCode"]),
		Name:     normalization.AsString(raw["productName"]),
		Price:    normalization.AsFloat64(raw["productPrice"]),
		Quantity: normalization.AsInt(raw["productEa"]),
	}
	if nested := normalization.AsMap(raw["product_b"]); nested != nil {
		category := NormalizeCategory(nested)
		product.Category = &category
	}
	return product
}

// CategoryName returns the product's category name or "".
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// CategoryCode returns the product's category code or "".
func (p Product) CategoryCode() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Code
}

func ProductID(p Product) string   { return p.Code }
func CategoryID(c Category) string { return c.Code }

// ProductFields are the search selector options. keyword matches the product name or its
// category name.
func ProductFields() []listview.Field[Product] {
	return []listview.Field[Product]{
		{Key: FieldKeyword, Label: "상품명/대분류명", Values: func(p Product) []string { return []string{p.Name, p.CategoryName()} }},
		{Key: FieldProductName, Label: "상품명", Values: func(p Product) []string { return []string{p.Name} }},
		{Key: FieldCategoryName, Label: "대분류명", Values: func(p Product) []string { return []string{p.CategoryName()} }},
	}
}

func CategoryFields() []listview.Field[Category] {
	return []listview.Field[Category]{
		{Key: FieldCategoryName, Label: "대분류명", Values: func(c Category) []string { return []string{c.Name} }},
	}
}

func ProductTable() listview.Table[Product] {
	return listview.Table[Product]{
		Columns: []listview.Column{
			{ID: "productBCode", Label: "대분류"},
			{ID: "productCode", Label: "상품 코드"},
			{ID: "productName", Label: "상품명"},
			{ID: "productPrice", Label: "상품 금액"},
			{ID: "productEa", Label: "상품 수량"},
		},
		EmptyMessage: emptyProducts,
		Render: func(p Product) listview.Row {
			return listview.Row{
				ID: p.Code,
				Cells: []listview.Cell{
					{Text: p.CategoryCode()},
					{Text: p.Code},
					{Text: p.Name, Link: true},
					{Text: FormatWon(p.Price)},
					{Text: strconv.Itoa(p.Quantity)},
				},
			}
		},
	}
}

func CategoryTable() listview.Table[Category] {
	return listview.Table[Category]{
		Columns: []listview.Column{
			{ID: "productBCode", Label: "대분류 코드"},
			{ID: "productBName", Label: "대분류명"},
		},
		EmptyMessage: emptyCategories,
		Render: func(c Category) listview.Row {
			return listview.Row{
				ID:    c.Code,
				Cells: []listview.Cell{{Text: c.Code}, {Text: c.Name, Link: true}},
			}
		},
	}
}

// ProductDetails lists the label/value pairs of the product detail modal.
func ProductDetails(p Product) [][2]string {
	return [][2]string{
		{"대분류", listview.TextOr(p.CategoryName(), "-")},
		{"상품 코드", p.Code},
		{"상품명", p.Name},
		{"상품 금액", FormatWon(p.Price)},
		{"상품 수량", strconv.Itoa(p.Quantity)},
	}
}

// DeletePrompt is the confirmation text of the category delete modal.
func DeletePrompt(c Category) string {
	return "정말로 '" + c.Name + "'을 삭제하시겠습니까?"
}

// ProductDeletePrompt is the confirmation text of the product delete modal.
func ProductDeletePrompt(p Product) string {
	return "정말로 '" + p.Name + "'을 삭제하시겠습니까?"
}

// ProductRegistration is the body of POST /product.
type ProductRegistration struct {
	CategoryCode string  `json:"productBCode" form:"productBCode" validate:"required"`
	Code         string  `json:"productCode" form:"productCode" validate:"required,max=20"`
	Name         string  `json:"productName" form:"productName" validate:"required,max=100"`
	Price        float64 `json:"productPrice" form:"productPrice" validate:"gte=0"`
	Quantity     int     `json:"productEa" form:"productEa" validate:"gte=0"`
}

// CategoryRegistration is the body of POST /productB.
type CategoryRegistration struct {
	Code string `json:"productBCode" form:"productBCode" validate:"required,max=20"`
	Name string `json:"productBName" form:"productBName" validate:"required,max=50"`
}
