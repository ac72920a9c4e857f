package application

import (
	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/modules/products/domain"
	"acornAdmin/internal/shared/normalization"
)

// NewProductScreen configures the product list with its page-size selector and the detail,
// registration and delete modals.
func NewProductScreen(backend port.RecordMutator[domain.ProductRegistration], source port.CollectionSource[domain.Product], itemsPerPage int) usecase.Screen[domain.Product, domain.ProductRegistration] {
	if itemsPerPage <= 0 {
		itemsPerPage = domain.DefaultItemsPerPage
	}
	return usecase.Screen[domain.Product, domain.ProductRegistration]{
		Name:   normalization.ScreenProducts,
		Title:  "소분류 목록",
		Entity: domain.ProductEntity,
		Table:  domain.ProductTable(),
		List: usecase.ControllerConfig[domain.Product]{
			Name:         normalization.ScreenProducts,
			Source:       source,
			Fields:       domain.ProductFields(),
			DefaultField: domain.FieldKeyword,
			IDOf:         domain.ProductID,
			ItemsPerPage: itemsPerPage,
		},
		PageSizes:   domain.PageSizes,
		Detail:      lines(domain.ProductDetails),
		CreateTitle: "상품 등록",
		FormFields: []usecase.FormField{
			{Name: "productBCode", Label: "대분류 코드", Type: "text", Required: true},
			{Name: "productCode", Label: "상품 코드", Type: "text", Required: true},
			{Name: "productName", Label: "상품명", Type: "text", Required: true},
			{Name: "productPrice", Label: "상품 금액", Type: "number"},
			{Name: "productEa", Label: "상품 수량", Type: "number"},
		},
		Creator:      backend,
		Deleter:      backend,
		DeletePrompt: domain.ProductDeletePrompt,
	}
}

// NewCategoryScreen configures the category (대분류) list with its delete confirmation.
func NewCategoryScreen(backend port.RecordMutator[domain.CategoryRegistration], source port.CollectionSource[domain.Category]) usecase.Screen[domain.Category, domain.CategoryRegistration] {
	return usecase.Screen[domain.Category, domain.CategoryRegistration]{
		Name:   normalization.ScreenCategories,
		Title:  "대분류 목록",
		Entity: domain.CategoryEntity,
		Table:  domain.CategoryTable(),
		List: usecase.ControllerConfig[domain.Category]{
			Name:         normalization.ScreenCategories,
			Source:       source,
			Fields:       domain.CategoryFields(),
			DefaultField: domain.FieldCategoryName,
			IDOf:         domain.CategoryID,
			ItemsPerPage: domain.DefaultCategoryItemsPerPage,
		},
		Detail: lines(func(c domain.Category) [][2]string {
			return [][2]string{{"대분류 코드", c.Code}, {"대분류명", c.Name}}
		}),
		CreateTitle: "대분류 등록",
		FormFields: []usecase.FormField{
			{Name: "productBCode", Label: "대분류 코드", Type: "text", Required: true},
			{Name: "productBName", Label: "대분류명", Type: "text", Required: true},
		},
		Creator:      backend,
		Deleter:      backend,
		DeletePrompt: domain.DeletePrompt,
	}
}

func lines[T any](pairs func(T) [][2]string) func(T) []usecase.DetailLine {
	return func(record T) []usecase.DetailLine {
		values := pairs(record)
		out := make([]usecase.DetailLine, 0, len(values))
		for _, pair := range values {
			out = append(out, usecase.DetailLine{Label: pair[0], Value: pair[1]})
		}
		return out
	}
}
