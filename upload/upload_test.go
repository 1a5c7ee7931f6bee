package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jcbmsp/halopsa-template-creator/config"
	"github.com/jcbmsp/halopsa-template-creator/halo"
	"github.com/jcbmsp/halopsa-template-creator/halo/halotest"
	"github.com/jcbmsp/halopsa-template-creator/report"
	"github.com/jcbmsp/halopsa-template-creator/tasks"
)

const sheet = `Type,Subtype,Item,Task,TicketType
Hardware,Laptop,Battery,Check disk,Incident
Access,VPN,New user,Create account,service-request
Hardware,Laptop,Battery,Restart service,Incident
`

func writeSheet(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ticket-template.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Error writing task sheet (%v)", err)
	}

	return path
}

func configFor(s *halotest.Server) config.Config {
	conf := config.Default()
	conf.BaseURL = s.BaseURL()
	conf.TokenURL = s.TokenURL()
	conf.ClientID = "client-1"
	conf.ClientSecret = "secret-1"

	return conf
}

func paths(rqs []halotest.Request) []string {
	list := []string{}
	for _, rq := range rqs {
		list = append(list, fmt.Sprintf("%v %v", rq.Method, rq.Path))
	}

	return list
}

func TestUpload(t *testing.T) {
	expected := []string{
		"POST /auth/token",
		"POST /api/category",
		"GET /api/TicketType",
		"POST /api/template",
		"POST /api/ticketrules",
		"POST /api/category",
		"GET /api/TicketType",
		"POST /api/template",
		"POST /api/ticketrules",
	}

	s := halotest.NewServer()
	defer s.Close()

	rpt, err := Upload(context.Background(), configFor(s), File(writeSheet(t, sheet)), Options{})
	if err != nil {
		t.Fatalf("Unexpected error uploading task sheet (%v)", err)
	}

	if calls := paths(s.Requests("")); !reflect.DeepEqual(calls, expected) {
		t.Errorf("Incorrect API calls\n   expected: %v\n   got:      %v\n", expected, calls)
	}

	templates := s.Requests("/api/template")
	items, _ := templates[0].Items()
	if todo := fmt.Sprintf("%v", items[0]["todo_list"]); todo != "[map[text:Check disk] map[text:Restart service]]" {
		t.Errorf("Incorrect todo list %v", todo)
	}

	if items, _ := templates[1].Items(); items[0]["tickettype_id"] != float64(2) {
		t.Errorf("Incorrect ticket type ID - expected:%v, got:%v", 2, items[0]["tickettype_id"])
	}

	for i, rq := range s.Requests("/api/ticketrules") {
		items, _ := rq.Items()
		if id := items[0]["new_template_id"]; id != float64(rpt.Bundles[i].TemplateID) {
			t.Errorf("Incorrect rule template ID - expected:%v, got:%v", rpt.Bundles[i].TemplateID, id)
		}
	}

	summary := report.Summarize(*rpt)
	if summary.Bundles != 2 || summary.Templates != 2 || summary.Rules != 2 || summary.Failed != 0 {
		t.Errorf("Incorrect summary %v", summary)
	}

	if rpt.Bundles[1].Match != "compact" {
		t.Errorf("Incorrect ticket type match - expected:%v, got:%v", "compact", rpt.Bundles[1].Match)
	}
}

func TestUploadWithTemplateFailure(t *testing.T) {
	expected := []string{
		"POST /auth/token",
		"POST /api/category",
		"GET /api/TicketType",
		"POST /api/template",
		"POST /api/category",
		"GET /api/TicketType",
		"POST /api/template",
		"POST /api/ticketrules",
	}

	s := halotest.NewServer()
	defer s.Close()

	s.Reject["/api/template"] = map[string]bool{"Hardware>Laptop>Battery": true}

	rpt, err := Upload(context.Background(), configFor(s), File(writeSheet(t, sheet)), Options{})
	if err != nil {
		t.Fatalf("Unexpected error uploading task sheet (%v)", err)
	}

	if calls := paths(s.Requests("")); !reflect.DeepEqual(calls, expected) {
		t.Errorf("Incorrect API calls\n   expected: %v\n   got:      %v\n", expected, calls)
	}

	if !rpt.Bundles[0].RuleSkipped || rpt.Bundles[0].Template == nil {
		t.Errorf("Expected rule to be skipped for failed template - got %+v", rpt.Bundles[0])
	}

	if rpt.Bundles[1].Failed() {
		t.Errorf("Expected second bundle to succeed - got %+v", rpt.Bundles[1])
	}

	rules := s.Requests("/api/ticketrules")
	if items, _ := rules[0].Items(); items[0]["name"] != "Access>VPN>New user" {
		t.Errorf("Incorrect rule - expected:%v, got:%v", "Access>VPN>New user", items[0]["name"])
	}
}

func TestUploadWithCategoryAndCatalogFailures(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	s.Status["/api/category"] = http.StatusConflict
	s.Status["/api/TicketType"] = http.StatusServiceUnavailable

	rpt, err := Upload(context.Background(), configFor(s), File(writeSheet(t, sheet)), Options{})
	if err != nil {
		t.Fatalf("Unexpected error uploading task sheet (%v)", err)
	}

	if len(s.Requests("/api/ticketrules")) != 2 {
		t.Errorf("Expected rules to be created for both bundles")
	}

	for _, o := range rpt.Bundles {
		if report.KindOf(o.Category) != report.ResourceCreation {
			t.Errorf("Expected category failure for '%v', got %v", o.Bundle, o.Category)
		}

		if report.KindOf(o.Catalog) != report.CatalogFetch {
			t.Errorf("Expected catalog failure for '%v', got %v", o.Bundle, o.Catalog)
		}

		if o.TicketTypeID != 1 {
			t.Errorf("Incorrect ticket type ID for '%v' - expected:%v, got:%v", o.Bundle, 1, o.TicketTypeID)
		}
	}
}

func TestUploadWithAuthenticationFailure(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	s.Status["/auth/token"] = http.StatusUnauthorized

	loaded := false
	source := func() (*tasks.TaskList, error) {
		loaded = true
		return tasks.Parse(nil), nil
	}

	_, err := Upload(context.Background(), configFor(s), source, Options{})
	if kind := report.KindOf(err); kind != report.Authentication {
		t.Fatalf("Incorrect error kind - expected:%v, got:%v (%v)", report.Authentication, kind, err)
	}

	if loaded {
		t.Errorf("Expected task sheet not to be loaded after authentication failure")
	}

	if rqs := s.Requests(""); len(rqs) != 1 {
		t.Errorf("Expected only the token request, got %v", paths(rqs))
	}
}

func TestUploadWithWindows1252(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	content := "Type,Subtype,Item,Task,TicketType\nHardware,Caf\xe9,Espresso machine,Descale,Incident\n"

	rpt, err := Upload(context.Background(), configFor(s), File(writeSheet(t, content)), Options{})
	if err != nil {
		t.Fatalf("Unexpected error uploading Windows-1252 task sheet (%v)", err)
	}

	if rpt.Encoding != tasks.Windows1252 {
		t.Errorf("Incorrect encoding - expected:%v, got:%v", tasks.Windows1252, rpt.Encoding)
	}

	if len(rpt.Bundles) != 1 || rpt.Bundles[0].Bundle != "Hardware>Café>Espresso machine" {
		t.Errorf("Incorrect bundles %+v", rpt.Bundles)
	}
}

func TestUploadWithMissingFile(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	_, err := Upload(context.Background(), configFor(s), File(filepath.Join(t.TempDir(), "missing.csv")), Options{})
	if kind := report.KindOf(err); kind != report.FileDecoding {
		t.Errorf("Incorrect error kind - expected:%v, got:%v (%v)", report.FileDecoding, kind, err)
	}
}

func TestUploadDryRun(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	rpt, err := Upload(context.Background(), config.Default(), File(writeSheet(t, sheet)), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Unexpected error for dry run (%v)", err)
	}

	if len(rpt.Bundles) != 2 {
		t.Errorf("Incorrect number of bundles - expected:%v, got:%v", 2, len(rpt.Bundles))
	}

	if rqs := s.Requests(""); len(rqs) != 0 {
		t.Errorf("Expected no requests for dry run, got %v", paths(rqs))
	}
}

func TestRun(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	result := Run(context.Background(), writeSheet(t, sheet), s.BaseURL(), s.TokenURL(), "client-1", "secret-1")
	if result != Completed {
		t.Errorf("Incorrect result - expected:%v, got:%v", Completed, result)
	}
}

func TestRunWithError(t *testing.T) {
	s := halotest.NewServer()
	defer s.Close()

	s.Status["/auth/token"] = http.StatusUnauthorized

	result := Run(context.Background(), writeSheet(t, sheet), s.BaseURL(), s.TokenURL(), "client-1", "wrong")
	if !strings.HasPrefix(result, "Error: ") || !strings.Contains(result, "invalid_client") {
		t.Errorf("Incorrect result - got:%v", result)
	}
}

func TestRunWithDifferentBaseURLs(t *testing.T) {
	s1 := halotest.NewServer()
	defer s1.Close()

	s2 := halotest.NewServer()
	defer s2.Close()

	path := writeSheet(t, sheet)

	if result := Run(context.Background(), path, s1.BaseURL(), s1.TokenURL(), "client-1", "secret-1"); result != Completed {
		t.Fatalf("Incorrect result for first run - expected:%v, got:%v", Completed, result)
	}

	first := len(s1.Requests(""))

	if result := Run(context.Background(), path, s2.BaseURL(), s2.TokenURL(), "client-2", "secret-2"); result != Completed {
		t.Fatalf("Incorrect result for second run - expected:%v, got:%v", Completed, result)
	}

	if n := len(s1.Requests("")); n != first {
		t.Errorf("Second run leaked %v requests to the first base URL", n-first)
	}

	if n := len(s2.Requests("")); n != first {
		t.Errorf("Incorrect number of requests for second run - expected:%v, got:%v", first, n)
	}

	if rqs := s2.Requests("/auth/token"); len(rqs) != 1 || rqs[0].Form.Get("client_id") != "client-2" {
		t.Errorf("Incorrect token request for second run %+v", rqs)
	}
}

type stub struct {
	calls    []string
	template error
}

func (p *stub) CreateCategory(ctx context.Context, name string) error {
	p.calls = append(p.calls, "category:"+name)
	return nil
}

func (p *stub) ResolveTicketType(ctx context.Context, label string) (int, halo.Match, error) {
	p.calls = append(p.calls, "resolve:"+label)
	return 1, halo.MatchDefault, nil
}

func (p *stub) CreateTemplate(ctx context.Context, name string, todo []tasks.Task, ticketTypeID int) (int, error) {
	p.calls = append(p.calls, "template:"+name)
	if p.template != nil {
		return 0, p.template
	}

	return 42, nil
}

func (p *stub) CreateRule(ctx context.Context, name string, templateID int) error {
	p.calls = append(p.calls, fmt.Sprintf("rule:%v:%v", name, templateID))
	return nil
}

func TestPublish(t *testing.T) {
	expected := []string{
		"category:A>B>C",
		"resolve:",
		"template:A>B>C",
		"rule:A>B>C:42",
		"category:A>B>D",
		"resolve:Incident",
		"template:A>B>D",
		"rule:A>B>D:42",
	}

	bundles := []tasks.Bundle{
		{Name: "A>B>C"},
		{Name: "A>B>D", TicketType: "Incident"},
	}

	p := stub{}
	outcomes, err := Publish(context.Background(), &p, bundles, false)
	if err != nil {
		t.Fatalf("Unexpected error publishing bundles (%v)", err)
	}

	if !reflect.DeepEqual(p.calls, expected) {
		t.Errorf("Incorrect calls\n   expected: %v\n   got:      %v\n", expected, p.calls)
	}

	if len(outcomes) != 2 || outcomes[0].TemplateID != 42 || outcomes[0].Match != "default" {
		t.Errorf("Incorrect outcomes %+v", outcomes)
	}
}

func TestPublishWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := stub{template: errors.New("unused")}
	outcomes, err := Publish(ctx, &p, []tasks.Bundle{{Name: "A>B>C"}}, false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if len(outcomes) != 0 || len(p.calls) != 0 {
		t.Errorf("Expected nothing to be published, got %v", p.calls)
	}
}
