package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	expected := Config{
		BaseURL:             "https://example.halopsa.com/api",
		TokenURL:            "https://example.halopsa.com/auth/token",
		ClientID:            "qwerty",
		ClientSecret:        "uiop",
		Scope:               "all",
		DefaultTicketTypeID: 3,
	}

	yaml := `
base_url: https://example.halopsa.com/api
token_url: https://example.halopsa.com/auth/token
client_id: qwerty
client_secret: uiop
default_ticket_type_id: 3
`

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatalf("Error writing test configuration (%v)", err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if !reflect.DeepEqual(*conf, expected) {
		t.Errorf("Incorrect configuration\n   expected: %+v\n   got:      %+v\n", expected, *conf)
	}
}

func TestLoadWithMissingFile(t *testing.T) {
	expected := Default()

	conf, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error loading missing configuration (%v)", err)
	}

	if !reflect.DeepEqual(*conf, expected) {
		t.Errorf("Incorrect configuration\n   expected: %+v\n   got:      %+v\n", expected, *conf)
	}
}

func TestLoadWithEnvironment(t *testing.T) {
	t.Setenv("HALO_BASE_URL", "https://env.halopsa.com/api")
	t.Setenv("HALO_CLIENT_ID", "from-env")

	conf, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error loading configuration (%v)", err)
	}

	if conf.BaseURL != "https://env.halopsa.com/api" {
		t.Errorf("Incorrect base URL - expected:%v, got:%v", "https://env.halopsa.com/api", conf.BaseURL)
	}

	if conf.ClientID != "from-env" {
		t.Errorf("Incorrect client ID - expected:%v, got:%v", "from-env", conf.ClientID)
	}

	if conf.Scope != "all" {
		t.Errorf("Incorrect scope - expected:%v, got:%v", "all", conf.Scope)
	}
}

func TestValidate(t *testing.T) {
	conf := Config{
		BaseURL:      "https://example.halopsa.com/api",
		TokenURL:     "https://example.halopsa.com/auth/token",
		ClientID:     "qwerty",
		ClientSecret: "uiop",
	}

	if err := conf.Validate(); err != nil {
		t.Errorf("Unexpected error validating configuration (%v)", err)
	}

	conf.ClientSecret = "  "
	if err := conf.Validate(); err == nil {
		t.Errorf("Expected error validating configuration without client secret")
	}
}

func TestEndpoint(t *testing.T) {
	tests := map[string]string{
		"https://example.halopsa.com/api":  "https://example.halopsa.com/api/category",
		"https://example.halopsa.com/api/": "https://example.halopsa.com/api/category",
	}

	for base, expected := range tests {
		conf := Config{BaseURL: base}
		if url := conf.Endpoint("category"); url != expected {
			t.Errorf("Incorrect endpoint - expected:%v, got:%v", expected, url)
		}
	}
}
