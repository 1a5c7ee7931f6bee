package commands

import (
	"context"
	"flag"
	"fmt"

	api "github.com/jcbmsp/halopsa-template-creator/halo"
)

var TicketTypesCmd = TicketTypes{
	halo: halo{},
}

// TicketTypes is the CLI command that lists the ticket types defined in HaloPSA, i.e. the catalog
// the TicketType column is matched against.
type TicketTypes struct {
	halo
}

func (cmd *TicketTypes) Name() string {
	return "ticket-types"
}

func (cmd *TicketTypes) Description() string {
	return "Lists the HaloPSA ticket types"
}

func (cmd *TicketTypes) Usage() string {
	return "[--base-url <url>] [--token-url <url>] [--client-id <id>]"
}

func (cmd *TicketTypes) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] ticket-types [options]\n", APP)
	fmt.Println()
	fmt.Println("  Lists the ticket types defined in HaloPSA. TicketType column values are matched against")
	fmt.Println("  these names (exact, then ignoring punctuation, then partial).")
	fmt.Println()

	helpOptions(cmd.FlagSet())
	fmt.Println()
}

func (cmd *TicketTypes) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("ticket-types", flag.ExitOnError)

	cmd.halo.flags(flagset)

	return flagset
}

func (cmd *TicketTypes) Execute(args ...any) error {
	options := args[0].(*Options)
	ctx := context.Background()

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	} else if err := conf.Validate(); err != nil {
		return err
	}

	client, err := api.Connect(ctx, conf)
	if err != nil {
		return err
	}

	catalog, err := client.TicketTypes(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	for _, tt := range catalog {
		marker := ""
		if tt.ID == conf.DefaultTicketTypeID {
			marker = "  (default)"
		}

		fmt.Printf("  %-6v %v%v\n", tt.ID, tt.Name, marker)
	}
	fmt.Println()

	return nil
}
