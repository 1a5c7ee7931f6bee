package commands

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jcbmsp/halopsa-template-creator/config"
	"github.com/jcbmsp/halopsa-template-creator/credential"
)

const APP = "halo-templates"

// Options holds the global command line options.
type Options struct {
	Config string
	Debug  bool
}

// halo holds the HaloPSA connection flags shared by the commands that talk to the API. Flags that are
// left blank fall back to the config file, then the HALO_* environment variables.
type halo struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
}

func (h *halo) flags(flagset *flag.FlagSet) {
	flagset.StringVar(&h.baseURL, "base-url", h.baseURL, "HaloPSA API base URL e.g. 'https://example.halopsa.com/api'")
	flagset.StringVar(&h.tokenURL, "token-url", h.tokenURL, "OAuth2 token URL e.g. 'https://example.halopsa.com/auth/token'")
	flagset.StringVar(&h.clientID, "client-id", h.clientID, "OAuth2 client ID")
	flagset.StringVar(&h.clientSecret, "client-secret", h.clientSecret, "OAuth2 client secret. Defaults to the secret stored with 'set-secret'")
	flagset.StringVar(&h.scope, "scope", h.scope, "OAuth2 scope. Defaults to 'all'")
}

// configure loads the config file and overlays the command line flags. The client secret is retrieved
// from the system keyring if it has not been supplied any other way.
func (h *halo) configure(options *Options) (config.Config, error) {
	path := options.Config
	if path == "" {
		path = config.DefaultConfigPath()
	}

	conf, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	override := func(v string, field *string) {
		if s := strings.TrimSpace(v); s != "" {
			*field = s
		}
	}

	override(h.baseURL, &conf.BaseURL)
	override(h.tokenURL, &conf.TokenURL)
	override(h.clientID, &conf.ClientID)
	override(h.clientSecret, &conf.ClientSecret)
	override(h.scope, &conf.Scope)

	if conf.ClientSecret == "" && conf.ClientID != "" {
		if secret, err := credential.GetSecret(conf.ClientID); err != nil {
			if options.Debug {
				debugf("%v", err)
			}
		} else {
			conf.ClientSecret = secret
		}
	}

	return *conf, nil
}

// google holds the Google Sheets flags shared by the commands that read a worksheet.
type google struct {
	workdir     string
	credentials string
	url         string
	area        string
}

func (g *google) flags(flagset *flag.FlagSet) {
	flagset.StringVar(&g.workdir, "workdir", g.workdir, "Directory for working files (Google tokens)")
	flagset.StringVar(&g.credentials, "credentials", g.credentials, "Path for the Google 'credentials.json' file")
	flagset.StringVar(&g.area, "range", g.area, "Spreadsheet range e.g. 'Tasks!A1:E'")
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// spreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func spreadsheetID(url string) (string, error) {
	match := spreadsheetURL.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// defaultFile returns the task sheet location used when neither --file nor --sheet is given.
func defaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ticket-template.csv"
	}

	return filepath.Join(home, "Downloads", "ticket-template.csv")
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-14s %s\n", f.Name, f.Usage)
	})
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
