package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcbmsp/halopsa-template-creator/config"
	"github.com/jcbmsp/halopsa-template-creator/halo"
	"github.com/jcbmsp/halopsa-template-creator/report"
	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

const Completed = "Upload completed successfully."

type Options struct {
	DryRun bool
	Debug  bool
}

// Source supplies the task list for an upload run.
type Source func() (*tasks.TaskList, error)

// File returns a Source that loads a CSV task sheet.
func File(path string) Source {
	return func() (*tasks.TaskList, error) {
		return tasks.Load(path)
	}
}

// Publisher is the subset of the HaloPSA client used to publish task bundles.
type Publisher interface {
	CreateCategory(ctx context.Context, name string) error
	ResolveTicketType(ctx context.Context, label string) (int, halo.Match, error)
	CreateTemplate(ctx context.Context, name string, todo []tasks.Task, ticketTypeID int) (int, error)
	CreateRule(ctx context.Context, name string, templateID int) error
}

// Run is the entry point for embedding callers. It uploads the CSV task sheet at path using the
// supplied connection details and returns a human readable result rather than an error.
func Run(ctx context.Context, path, baseURL, tokenURL, clientID, clientSecret string) string {
	conf := config.Default()
	conf.BaseURL = baseURL
	conf.TokenURL = tokenURL
	conf.ClientID = clientID
	conf.ClientSecret = clientSecret

	if _, err := Upload(ctx, conf, File(path), Options{}); err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	return Completed
}

// Upload obtains a bearer token, loads the task list and publishes every bundle in order. Only a
// failure to authenticate or to load the task list is returned as an error, everything else is
// logged and recorded in the report. A dry run neither authenticates nor publishes.
func Upload(ctx context.Context, conf config.Config, source Source, options Options) (*report.Report, error) {
	rpt := report.Report{
		RunID:   uuid.NewString(),
		DryRun:  options.DryRun,
		Started: time.Now(),
	}

	infof("%v  starting upload (dry-run:%v)", rpt.RunID, rpt.DryRun)

	var client Publisher
	if !options.DryRun {
		if err := conf.Validate(); err != nil {
			return nil, err
		}

		if options.Debug {
			debugf("%v  base URL:%v  token URL:%v  client ID:%v", rpt.RunID, conf.BaseURL, conf.TokenURL, conf.ClientID)
		}

		c, err := halo.Connect(ctx, conf)
		if err != nil {
			return nil, err
		}

		client = c
	}

	list, err := source()
	if err != nil {
		return nil, err
	}

	if list.Encoding == tasks.Windows1252 {
		warnf("UTF-8 decoding failed, task sheet decoded as Windows-1252")
	}

	rpt.Encoding = list.Encoding
	rpt.Rows = list.Errors

	for _, err := range list.Errors {
		warnf("Error processing %v", err)
	}

	infof("%v  retrieved %v task bundles", rpt.RunID, len(list.Bundles))

	if options.DryRun {
		for _, b := range list.Bundles {
			infof("%-40v  tasks:%-3v  ticket type:'%v'", b.Name, len(b.Tasks), b.TicketType)
			rpt.Bundles = append(rpt.Bundles, report.Outcome{
				Bundle:     b.Name,
				Tasks:      len(b.Tasks),
				TicketType: b.TicketType,
			})
		}
	} else {
		outcomes, err := Publish(ctx, client, list.Bundles, options.Debug)
		rpt.Bundles = outcomes
		if err != nil {
			return &rpt, err
		}
	}

	rpt.Finished = time.Now()

	infof("%v  %v", rpt.RunID, report.Summarize(rpt))

	return &rpt, nil
}

// Publish creates the category, template and rule for each bundle in turn. Failures are logged and
// recorded in the returned outcomes and never stop the remaining bundles. A rule is only created if
// the template was created and HaloPSA returned its ID. Publishing stops early if the context is
// cancelled.
func Publish(ctx context.Context, p Publisher, bundles []tasks.Bundle, debug bool) ([]report.Outcome, error) {
	outcomes := []report.Outcome{}

	for _, b := range bundles {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := report.Outcome{
			Bundle:     b.Name,
			Tasks:      len(b.Tasks),
			TicketType: b.TicketType,
		}

		// ... category
		if err := p.CreateCategory(ctx, b.Name); err != nil {
			outcome.Category = err
			warnf("%v", err)
		} else {
			infof("Category '%v' created", b.Name)
		}

		// ... template
		id, match, err := p.ResolveTicketType(ctx, b.TicketType)

		outcome.TicketTypeID = id
		outcome.Match = fmt.Sprintf("%v", match)
		outcome.Catalog = err

		switch {
		case err != nil:
			warnf("%v - using default ticket type (ID=%v)", err, id)

		case match == halo.MatchDefault:
			warnf("No ticket type provided for '%v' - using default ticket type (ID=%v)", b.Name, id)

		case match == halo.MatchNone:
			warnf("No match found for ticket type '%v' - using default ticket type (ID=%v)", b.TicketType, id)

		case debug:
			debugf("%v match for ticket type '%v' (ID=%v)", match, b.TicketType, id)
		}

		templateID, err := p.CreateTemplate(ctx, b.Name, b.Tasks, id)
		if err != nil {
			outcome.Template = err
			outcome.RuleSkipped = true

			warnf("%v", err)
			warnf("Skipping rule creation for '%v' (no template ID)", b.Name)

			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.TemplateID = templateID
		infof("Template '%v' created (ID=%v)", b.Name, templateID)

		// ... rule
		if err := p.CreateRule(ctx, b.Name, templateID); err != nil {
			outcome.Rule = err
			warnf("%v", err)
		} else {
			infof("Rule for '%v' created", b.Name)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
