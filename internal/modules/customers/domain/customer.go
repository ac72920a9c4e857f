package domain

import (
	"strings"
	"time"

	listview "acornAdmin/internal/modules/listview/domain"
	"acornAdmin/internal/shared/normalization"
)

const (
	Entity = "customer"

	FieldName = "customerName"
	FieldTel  = "customerTel"
	FieldMail = "customerMail"
	FieldRank = "customerRank"

	DefaultItemsPerPage = 15

	missingValue = "정보 없음"
	missingNote  = "없음"
	emptyMessage = "등록된 고객이 없습니다."
)

// Customer is one record of GET /customer. Every field is optional on the wire.
type Customer struct {
	ID     string `json:"customerId"`
	Name   string `json:"customerName"`
	Gender string `json:"customerGender"`
	Tel    string `json:"customerTel"`
	Mail   string `json:"customerMail"`
	Reg    string `json:"customerReg"`
	Rank   string `json:"customerRank"`
	Note   string `json:"customerNote"`
}

// UnmarshalJSON accepts numeric or string ids and ignores unknown keys.
func (c *Customer) UnmarshalJSON(data []byte) error {
	raw, err := normalization.DecodeObject(data)
	if err != nil {
		return err
	}
	*c = NormalizeCustomer(raw)
	return nil
}

// NormalizeCustomer constructs a Customer from an arbitrary map payload.
func NormalizeCustomer(raw map[string]any) Customer {
	return Customer{
		ID:     normalization.AsString(raw["customerId"]),
		Name:   normalization.AsString(raw["customerName"]),
		Gender: normalization.AsString(raw["customerGender"]),
		Tel:    normalization.AsString(raw["customerTel"]),
		Mail:   normalization.AsString(raw["customerMail"]),
		Reg:    normalization.AsString(raw["customerReg"]),
		Rank:   normalization.AsString(raw["customerRank"]),
		Note:   normalization.AsString(raw["customerNote"]),
	}
}

// RecordID identifies a customer in detail links.
func RecordID(c Customer) string { return c.ID }

var regLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006.01.02",
}

// RegisteredAt parses customerReg. Customers without a parseable date report false.
func RegisteredAt(c Customer) (time.Time, bool) {
	value := strings.TrimSpace(c.Reg)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range regLayouts {
		if at, err := time.Parse(layout, value); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// Fields are the search selector options, name first.
func Fields() []listview.Field[Customer] {
	return []listview.Field[Customer]{
		{Key: FieldName, Label: "이름", Values: func(c Customer) []string { return []string{c.Name} }},
		{Key: FieldTel, Label: "연락처", Values: func(c Customer) []string { return []string{c.Tel} }},
		{Key: FieldMail, Label: "E-mail", Values: func(c Customer) []string { return []string{c.Mail} }},
		{Key: FieldRank, Label: "고객 등급", Values: func(c Customer) []string { return []string{c.Rank} }},
	}
}

// Table renders customers the way the list screen shows them.
func Table() listview.Table[Customer] {
	return listview.Table[Customer]{
		Columns: []listview.Column{
			{ID: "customerId", Label: "ID"},
			{ID: "customerName", Label: "이름"},
			{ID: "customerGender", Label: "성별"},
			{ID: "customerTel", Label: "연락처"},
			{ID: "customerMail", Label: "E-mail"},
			{ID: "customerReg", Label: "고객 등록일"},
			{ID: "customerRank", Label: "고객 등급"},
			{ID: "customerNote", Label: "특이사항"},
		},
		EmptyMessage: emptyMessage,
		Render:       renderRow,
	}
}

func renderRow(c Customer) listview.Row {
	return listview.Row{
		ID: c.ID,
		Cells: []listview.Cell{
			{Text: c.ID},
			{Text: c.Name, Link: true},
			{Text: listview.TextOr(c.Gender, missingValue)},
			{Text: listview.TextOr(c.Tel, missingValue)},
			{Text: listview.TextOr(c.Mail, missingValue)},
			{Text: listview.TextOr(c.Reg, missingValue)},
			{Text: listview.TextOr(c.Rank, missingValue)},
			{Text: listview.TextOr(c.Note, missingNote)},
		},
	}
}

// Details lists the label/value pairs of the detail modal.
func Details(c Customer) [][2]string {
	return [][2]string{
		{"ID", c.ID},
		{"이름", listview.TextOr(c.Name, missingValue)},
		{"성별", listview.TextOr(c.Gender, missingValue)},
		{"연락처", listview.TextOr(c.Tel, missingValue)},
		{"E-mail", listview.TextOr(c.Mail, missingValue)},
		{"고객 등록일", listview.TextOr(c.Reg, missingValue)},
		{"고객 등급", listview.TextOr(c.Rank, missingValue)},
		{"특이사항", listview.TextOr(c.Note, missingNote)},
	}
}

// Registration is the body of POST /customer.
type Registration struct {
	Name   string `json:"customerName" form:"customerName" validate:"required,max=50"`
	Gender string `json:"customerGender,omitempty" form:"customerGender" validate:"omitempty,oneof=남 여"`
	Tel    string `json:"customerTel" form:"customerTel" validate:"required,max=20"`
	Mail   string `json:"customerMail,omitempty" form:"customerMail" validate:"omitempty,email"`
	Rank   string `json:"customerRank,omitempty" form:"customerRank" validate:"omitempty,max=20"`
	Note   string `json:"customerNote,omitempty" form:"customerNote" validate:"omitempty,max=500"`
}
