package commands

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jcbmsp/halopsa-template-creator/credential"
)

var SetSecretCmd = SetSecret{}

// SetSecret is the CLI command that stores the HaloPSA client secret in the system keyring.
type SetSecret struct {
	clientID string
}

func (cmd *SetSecret) Name() string {
	return "set-secret"
}

func (cmd *SetSecret) Description() string {
	return "Stores the HaloPSA OAuth2 client secret in the system keyring"
}

func (cmd *SetSecret) Usage() string {
	return "--client-id <id>"
}

func (cmd *SetSecret) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s set-secret --client-id <id>\n", APP)
	fmt.Println()
	fmt.Println("  Prompts for the OAuth2 client secret and stores it in the system keyring. The stored secret")
	fmt.Println("  is used by 'upload' and 'ticket-types' if no secret is configured.")
	fmt.Println()

	helpOptions(cmd.FlagSet())
	fmt.Println()
}

func (cmd *SetSecret) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("set-secret", flag.ExitOnError)

	flagset.StringVar(&cmd.clientID, "client-id", cmd.clientID, "OAuth2 client ID")

	return flagset
}

func (cmd *SetSecret) Execute(args ...any) error {
	options := args[0].(*Options)

	clientID := strings.TrimSpace(cmd.clientID)
	if clientID == "" {
		if conf, err := (&halo{}).configure(options); err == nil {
			clientID = conf.ClientID
		}
	}

	if clientID == "" {
		return fmt.Errorf("--client-id is a required option")
	}

	fmt.Printf("  Client secret for %v: ", clientID)

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("unable to read client secret (%v)", err)
	}

	if strings.TrimSpace(string(secret)) == "" {
		return fmt.Errorf("invalid client secret")
	}

	if err := credential.SetSecret(clientID, strings.TrimSpace(string(secret))); err != nil {
		return err
	}

	infof("Client secret for %v stored in keyring", clientID)

	return nil
}
