package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

var GetCmd = Get{
	google: google{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		url:         "",
		area:        "",
	},

	file: "",
}

type Get struct {
	google
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a task sheet from a Google Sheets worksheet and stores it to a local CSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --range <range> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets task sheet to a CSV file that can be used with 'upload --file'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s --debug get --credentials \"credentials.json\" \\\n", APP)
	fmt.Println(`                           --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                           --range "Tasks!A1:E" \`)
	fmt.Println(`                           --file "ticket-template.csv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("get", flag.ExitOnError)

	flagset.StringVar(&cmd.google.url, "url", cmd.google.url, "Google Sheets spreadsheet URL")
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV file name. Defaults to ~/Downloads/ticket-template.csv")

	cmd.google.flags(flagset)

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	if strings.TrimSpace(cmd.google.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	file := cmd.file
	if strings.TrimSpace(file) == "" {
		file = defaultFile()
	}

	values, err := getValues(context.Background(), cmd.google, options.Debug)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(os.TempDir(), "halo-templates")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := tasks.MakeCSV(tmp, values); err != nil {
		return fmt.Errorf("error creating CSV file (%v)", err)
	}

	tmp.Close()

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return err
	}

	infof("Retrieved task sheet to file %s", file)

	return nil
}
