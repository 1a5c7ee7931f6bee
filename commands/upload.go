package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/jcbmsp/halopsa-template-creator/report"
	"github.com/jcbmsp/halopsa-template-creator/upload"
)

var UploadCmd = Upload{
	halo: halo{},
	google: google{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},
	file:   "",
	dryrun: false,
}

// Upload is the CLI command that creates a HaloPSA category, ticket template and ticket rule for each
// task bundle in a task sheet.
type Upload struct {
	halo
	google
	file   string
	dryrun bool
}

func (cmd *Upload) Name() string {
	return "upload"
}

func (cmd *Upload) Description() string {
	return "Creates HaloPSA categories, ticket templates and ticket rules from a task sheet"
}

func (cmd *Upload) Usage() string {
	return "[--file <file>] [--sheet <url> --range <range>] [--dryrun]"
}

func (cmd *Upload) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] upload [options]\n", APP)
	fmt.Println()
	fmt.Println("  Reads a task sheet with Type, Subtype, Item, Task and TicketType columns, groups the rows into")
	fmt.Println("  task bundles keyed on 'Type>Subtype>Item' and creates a category, a ticket template and a")
	fmt.Println("  ticket rule in HaloPSA for each bundle.")
	fmt.Println()
	fmt.Printf("  The task sheet defaults to %v\n", defaultFile())
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s upload --file ticket-template.csv\n", APP)
	fmt.Printf("    %s --debug upload --base-url https://example.halopsa.com/api \\\n", APP)
	fmt.Println(`                      --token-url https://example.halopsa.com/auth/token \`)
	fmt.Println(`                      --client-id 4f6d0f71 \`)
	fmt.Println(`                      --sheet "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                      --range "Tasks!A1:E"`)
	fmt.Println()
}

func (cmd *Upload) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("upload", flag.ExitOnError)

	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV task sheet. Defaults to ~/Downloads/ticket-template.csv")
	flagset.StringVar(&cmd.google.url, "sheet", cmd.google.url, "Google Sheets spreadsheet URL. Reads the task sheet from Google Sheets instead of a file")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Reads and validates the task sheet without creating anything in HaloPSA")

	cmd.halo.flags(flagset)
	cmd.google.flags(flagset)

	return flagset
}

func (cmd *Upload) Execute(args ...any) error {
	options := args[0].(*Options)
	ctx := context.Background()

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	}

	var source upload.Source
	switch {
	case strings.TrimSpace(cmd.google.url) != "" && strings.TrimSpace(cmd.file) != "":
		return fmt.Errorf("--file and --sheet are mutually exclusive")

	case strings.TrimSpace(cmd.google.url) != "":
		source = sheetSource(ctx, cmd.google, options.Debug)

	case strings.TrimSpace(cmd.file) != "":
		source = upload.File(cmd.file)

	default:
		source = upload.File(defaultFile())
	}

	rpt, err := upload.Upload(ctx, conf, source, upload.Options{
		DryRun: cmd.dryrun,
		Debug:  options.Debug,
	})
	if err != nil {
		return err
	}

	printReport(*rpt)

	if !rpt.DryRun {
		fmt.Println(upload.Completed)
	}

	return nil
}

func printReport(rpt report.Report) {
	fmt.Println()
	for _, o := range rpt.Bundles {
		status := "ok"
		switch {
		case rpt.DryRun:
			status = "-"
		case o.RuleSkipped:
			status = "rule skipped"
		case o.Failed():
			status = "failed"
		}

		fmt.Printf("  %-48v  tasks:%-3v  ticket type:%-4v  %v\n", o.Bundle, o.Tasks, o.TicketTypeID, status)
	}

	fmt.Println()
	fmt.Printf("  %v\n", report.Summarize(rpt))
	fmt.Println()
}
