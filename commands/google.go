package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	oauth "golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

const SHEETS = "https://www.googleapis.com/auth/spreadsheets.readonly"

// authorize returns an HTTP client authorised with the Google token cached by the 'authorise' command.
func authorize(credentials, scope, workdir string) (*http.Client, error) {
	config, err := oauthConfig(credentials, scope)
	if err != nil {
		return nil, err
	}

	file := tokensFile(credentials, workdir)
	token, err := tokenFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("no Google authorisation token in %v - run '%v authorise' first (%w)", file, APP, err)
	}

	return config.Client(context.Background(), token), nil
}

func oauthConfig(credentials, scope string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	return oauth.ConfigFromJSON(b, scope)
}

func tokensFile(credentials, workdir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(workdir, ".google", fmt.Sprintf("%s.sheets", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token (%v)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// getValues fetches the cell values for a range of a Google Sheets worksheet.
func getValues(ctx context.Context, g google, debug bool) ([][]any, error) {
	if strings.TrimSpace(g.credentials) == "" {
		return nil, fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(g.area) == "" {
		return nil, fmt.Errorf("--range is a required option")
	}

	spreadsheet, err := spreadsheetID(g.url)
	if err != nil {
		return nil, err
	}

	if debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, g.area)
	}

	client, err := authorize(g.credentials, SHEETS, g.workdir)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%v)", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	response, err := service.Spreadsheets.Values.Get(spreadsheet, g.area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%v)", err)
	}

	if len(response.Values) == 0 {
		return nil, fmt.Errorf("no data in spreadsheet/range")
	}

	return response.Values, nil
}

// sheetSource adapts a Google Sheets range to the upload task list source.
func sheetSource(ctx context.Context, g google, debug bool) func() (*tasks.TaskList, error) {
	return func() (*tasks.TaskList, error) {
		values, err := getValues(ctx, g, debug)
		if err != nil {
			return nil, err
		}

		list := tasks.Parse(tasks.FromSheet(values))
		list.Encoding = tasks.UTF8

		return list, nil
	}
}
