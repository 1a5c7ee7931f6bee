package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/jcbmsp/halopsa-template-creator/commands"
	"github.com/jcbmsp/halopsa-template-creator/config"
)

var cli = []uhppoted.Command{
	&commands.UploadCmd,
	&commands.TicketTypesCmd,
	&commands.GetCmd,
	&commands.AuthoriseCmd,
	&commands.SetSecretCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Config: config.DefaultConfigPath(),
	Debug:  false,
}

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "HaloPSA connection settings file")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		help.Execute()
		os.Exit(1)
	}

	if err = cmd.Execute(&options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
