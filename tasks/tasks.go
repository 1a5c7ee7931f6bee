package tasks

import (
	"fmt"
	"strings"

	"github.com/jcbmsp/halopsa-template-creator/report"
)

const (
	colType       = "type"
	colSubtype    = "subtype"
	colItem       = "item"
	colTask       = "task"
	colTicketType = "tickettype"
)

var columns = map[string]string{
	colType:       "Type",
	colSubtype:    "Subtype",
	colItem:       "Item",
	colTask:       "Task",
	colTicketType: "TicketType",
}

// Task is a single checklist entry. The JSON form is the HaloPSA template 'todo_list' item.
type Task struct {
	Text string `json:"text"`
}

// Bundle is a named group of tasks destined to become one category/template/rule triple.
type Bundle struct {
	Name       string
	Tasks      []Task
	TicketType string
}

// TaskList is the result of ingesting a task sheet. Bundles are ordered by first appearance and Errors
// holds the row level errors for the rows that were skipped.
type TaskList struct {
	Encoding string
	Bundles  []Bundle
	Errors   []error
}

func (l TaskList) Get(name string) (Bundle, bool) {
	for _, b := range l.Bundles {
		if b.Name == name {
			return b, true
		}
	}

	return Bundle{}, false
}

// Parse groups the rows of a task sheet into bundles keyed on Type>Subtype>Item. The first row is the
// header. Rows missing any of the key columns, or too short to reach the Task or TicketType column, are
// skipped and recorded in TaskList.Errors. The ticket type of a bundle is taken from the first row that
// creates it.
func Parse(rows [][]string) *TaskList {
	list := TaskList{
		Bundles: []Bundle{},
		Errors:  []error{},
	}

	if len(rows) == 0 {
		return &list
	}

	index := map[string]int{}
	for i, v := range rows[0] {
		index[normalise(v)] = i
	}

	// A Task or TicketType column that is not in the header reads as blank but a row that stops short
	// of a column that is in the header is missing that column.
	field := func(row []string, column string, required bool) (string, bool) {
		ix, ok := index[column]
		switch {
		case !ok:
			return "", !required
		case ix >= len(row):
			return "", false
		default:
			return row[ix], true
		}
	}

	bundles := map[string]int{}

	for i, row := range rows[1:] {
		line := i + 2
		values := [5]string{}

		missing := ""
		for j, column := range []string{colType, colSubtype, colItem, colTask, colTicketType} {
			v, ok := field(row, column, j < 3)
			if !ok {
				missing = column
				break
			}

			values[j] = v
		}

		if missing != "" {
			list.Errors = append(list.Errors, &report.Error{
				Kind: report.Row,
				Op:   fmt.Sprintf("row %d", line),
				Err:  fmt.Errorf("missing column '%s'", columns[missing]),
			})

			continue
		}

		key := strings.Join(values[:3], ">")
		task := values[3]
		tickettype := values[4]

		ix, ok := bundles[key]
		if !ok {
			ix = len(list.Bundles)
			bundles[key] = ix

			list.Bundles = append(list.Bundles, Bundle{
				Name:       key,
				Tasks:      []Task{},
				TicketType: clean(tickettype),
			})
		}

		if text := clean(task); text != "" {
			list.Bundles[ix].Tasks = append(list.Bundles[ix].Tasks, Task{Text: text})
		}
	}

	return &list
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}
