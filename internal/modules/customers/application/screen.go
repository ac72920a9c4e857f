package application

import (
	"acornAdmin/internal/modules/customers/domain"
	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/modules/listview/application/usecase"
	"acornAdmin/internal/shared/normalization"
)

// NewScreen configures the customer list: 15 rows per page unless itemsPerPage overrides it,
// searchable by name, phone, mail and rank, with a registration date range.
func NewScreen(source port.CollectionSource[domain.Customer], creator port.RecordCreator[domain.Registration], itemsPerPage int) usecase.Screen[domain.Customer, domain.Registration] {
	if itemsPerPage <= 0 {
		itemsPerPage = domain.DefaultItemsPerPage
	}
	return usecase.Screen[domain.Customer, domain.Registration]{
		Name:   normalization.ScreenCustomers,
		Title:  "고객 목록",
		Entity: domain.Entity,
		Table:  domain.Table(),
		List: usecase.ControllerConfig[domain.Customer]{
			Name:         normalization.ScreenCustomers,
			Source:       source,
			Fields:       domain.Fields(),
			DefaultField: domain.FieldName,
			DateOf:       domain.RegisteredAt,
			IDOf:         domain.RecordID,
			ItemsPerPage: itemsPerPage,
		},
		Detail:      detailLines,
		CreateTitle: "고객 등록",
		FormFields: []usecase.FormField{
			{Name: "customerName", Label: "이름", Type: "text", Required: true},
			{Name: "customerGender", Label: "성별", Type: "select", Options: []string{"남", "여"}},
			{Name: "customerTel", Label: "연락처", Type: "tel", Required: true},
			{Name: "customerMail", Label: "E-mail", Type: "email"},
			{Name: "customerRank", Label: "고객 등급", Type: "text"},
			{Name: "customerNote", Label: "특이사항", Type: "textarea"},
		},
		Creator: creator,
	}
}

func detailLines(c domain.Customer) []usecase.DetailLine {
	pairs := domain.Details(c)
	lines := make([]usecase.DetailLine, 0, len(pairs))
	for _, pair := range pairs {
		lines = append(lines, usecase.DetailLine{Label: pair[0], Value: pair[1]})
	}
	return lines
}
