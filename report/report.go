package report

import (
	"fmt"
	"time"
)

// Outcome records what happened to a single task bundle during an upload.
type Outcome struct {
	Bundle       string
	Tasks        int
	TicketType   string
	TicketTypeID int
	Match        string

	Category   error
	Catalog    error
	Template   error
	TemplateID int
	Rule       error

	// RuleSkipped is set when no template id was available for the rule.
	RuleSkipped bool
}

func (o Outcome) Failed() bool {
	return o.Category != nil || o.Template != nil || o.Rule != nil
}

type Report struct {
	RunID    string
	Encoding string
	DryRun   bool
	Started  time.Time
	Finished time.Time
	Rows     []error
	Bundles  []Outcome
}

type Summary struct {
	Bundles    int
	Categories int
	Templates  int
	Rules      int
	Skipped    int
	Failed     int
	RowErrors  int
}

func Summarize(r Report) Summary {
	summary := Summary{
		Bundles:   len(r.Bundles),
		RowErrors: len(r.Rows),
	}

	if r.DryRun {
		return summary
	}

	for _, o := range r.Bundles {
		if o.Category == nil {
			summary.Categories++
		}

		if o.Template == nil {
			summary.Templates++
		}

		if o.RuleSkipped {
			summary.Skipped++
		} else if o.Rule == nil {
			summary.Rules++
		}

		if o.Failed() {
			summary.Failed++
		}
	}

	return summary
}

func (s Summary) String() string {
	return fmt.Sprintf("bundles:%v  categories:%v  templates:%v  rules:%v  skipped:%v  failed:%v  row-errors:%v",
		s.Bundles, s.Categories, s.Templates, s.Rules, s.Skipped, s.Failed, s.RowErrors)
}
