package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

var AuthoriseCmd = Authorise{
	google: google{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},
}

type Authorise struct {
	google
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises halo-templates to read task sheets from Google Sheets"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Obtains a Google OAuth2 token for read-only access to Google Sheets and caches it in the")
	fmt.Println("  working directory for use by the 'get' and 'upload --sheet' commands.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s authorise --credentials \"credentials.json\"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (Google tokens)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the Google 'credentials.json' file")

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	config, err := oauthConfig(cmd.credentials, SHEETS)
	if err != nil {
		return fmt.Errorf("authorisation error (%v)", err)
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Println()
	fmt.Println("  Open the following link in your browser and then enter the authorisation code:")
	fmt.Println()
	fmt.Printf("  %v\n", url)
	fmt.Println()
	fmt.Print("  Code: ")

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("unable to read authorisation code (%v)", err)
	} else if code = strings.TrimSpace(code); code == "" {
		return fmt.Errorf("invalid authorisation code")
	}

	token, err := config.Exchange(context.Background(), code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web (%v)", err)
	}

	file := tokensFile(cmd.credentials, cmd.workdir)
	if options.Debug {
		debugf("Saving Google token to %v", file)
	}

	if err := saveToken(file, token); err != nil {
		return err
	}

	infof("Google Sheets access authorised")

	return nil
}
