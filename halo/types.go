package halo

import (
	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

// TicketType is an entry in the HaloPSA /TicketType catalog.
type TicketType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is the POST /category request item.
type Category struct {
	Name   string `json:"category_name"`
	Value  string `json:"value"`
	TypeID int    `json:"type_id"`
}

// Template is the POST /template request item.
type Template struct {
	Name         string       `json:"name"`
	TicketTypeID int          `json:"tickettype_id"`
	TodoList     []tasks.Task `json:"todo_list"`
}

// Rule is the POST /ticketrules request item.
type Rule struct {
	Name          string      `json:"name"`
	Use           string      `json:"use"`
	Criteria      []Criterion `json:"criteria"`
	NewPriorityID string      `json:"new_priority_id"`
	NewTemplateID int         `json:"new_template_id"`
}

type Criterion struct {
	FieldName    string `json:"fieldname"`
	ValueType    string `json:"value_type"`
	TableName    string `json:"tablename"`
	Type         int    `json:"type"`
	ValueString  string `json:"value_string"`
	ValueDisplay string `json:"value_display"`
}

// created is the subset of a POST response used to identify the created resource.
type created struct {
	ID *int `json:"id"`
}
