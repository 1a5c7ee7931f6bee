package halo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jcbmsp/halopsa-template-creator/report"
	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

// CreateCategory creates a category whose name and value are both the bundle name.
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	category := Category{
		Name:   name,
		Value:  name,
		TypeID: 1,
	}

	op := fmt.Sprintf("failed to create category '%s'", name)

	status, body, err := c.post(ctx, "category", category)
	if err != nil {
		return &report.Error{Kind: report.ResourceCreation, Op: op, Err: err}
	} else if status != http.StatusCreated {
		return &report.Error{Kind: report.ResourceCreation, Op: op, Status: status, Body: string(body)}
	}

	return nil
}

// CreateTemplate creates a template with the task list as its checklist and returns the ID assigned by
// HaloPSA. A 201 response without a usable 'id' is treated as a failure.
func (c *Client) CreateTemplate(ctx context.Context, name string, todo []tasks.Task, ticketTypeID int) (int, error) {
	if todo == nil {
		todo = []tasks.Task{}
	}

	template := Template{
		Name:         name,
		TicketTypeID: ticketTypeID,
		TodoList:     todo,
	}

	op := fmt.Sprintf("failed to create template '%s'", name)

	status, body, err := c.post(ctx, "template", template)
	if err != nil {
		return 0, &report.Error{Kind: report.ResourceCreation, Op: op, Err: err}
	} else if status != http.StatusCreated {
		return 0, &report.Error{Kind: report.ResourceCreation, Op: op, Status: status, Body: string(body)}
	}

	var reply created
	if err := json.Unmarshal(body, &reply); err != nil {
		return 0, &report.Error{Kind: report.ResourceCreation, Op: "error parsing template response", Status: status, Err: err}
	} else if reply.ID == nil || *reply.ID == 0 {
		return 0, &report.Error{Kind: report.ResourceCreation, Op: "error parsing template response", Status: status, Err: fmt.Errorf("missing template ID")}
	}

	return *reply.ID, nil
}

// CreateRule creates a ticket rule that applies the template to tickets whose category matches the
// bundle name.
func (c *Client) CreateRule(ctx context.Context, name string, templateID int) error {
	if templateID == 0 {
		return &report.Error{Kind: report.ResourceCreation, Op: fmt.Sprintf("failed to create rule for '%s'", name), Err: fmt.Errorf("missing template ID")}
	}

	rule := Rule{
		Name: name,
		Use:  "0",
		Criteria: []Criterion{
			{
				FieldName:    "category2",
				ValueType:    "string",
				TableName:    "faults",
				Type:         0,
				ValueString:  name,
				ValueDisplay: name,
			},
		},
		NewPriorityID: "1",
		NewTemplateID: templateID,
	}

	op := fmt.Sprintf("failed to create rule for '%s'", name)

	status, body, err := c.post(ctx, "ticketrules", rule)
	if err != nil {
		return &report.Error{Kind: report.ResourceCreation, Op: op, Err: err}
	} else if status != http.StatusCreated {
		return &report.Error{Kind: report.ResourceCreation, Op: op, Status: status, Body: string(body)}
	}

	return nil
}
