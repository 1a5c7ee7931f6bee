// Package halotest provides a fake HaloPSA API and OAuth2 token endpoint for tests.
package halotest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

type TicketType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Request is a request received by the fake server.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Form          url.Values
	Body          []byte
}

// Items decodes the array wrapped JSON body of a POST request.
func (rq Request) Items() ([]map[string]any, error) {
	items := []map[string]any{}
	if err := json.Unmarshal(rq.Body, &items); err != nil {
		return nil, err
	}

	return items, nil
}

// Server is a fake HaloPSA instance. The exported fields configure the responses and may be changed
// before issuing requests.
type Server struct {
	*httptest.Server

	Token       string
	TicketTypes []TicketType

	// Status overrides the response status for a path e.g. "/api/TicketType": 500.
	Status map[string]int

	// Reply overrides the response body for a path.
	Reply map[string]string

	// Reject fails POSTs to a path for the named items with 400 e.g. "/api/template": {"A>B>C": true}.
	Reject map[string]map[string]bool

	mu       sync.Mutex
	requests []Request
	id       int
}

func NewServer() *Server {
	s := &Server{
		Token: "qwerty-uiop",
		TicketTypes: []TicketType{
			{ID: 1, Name: "Incident"},
			{ID: 2, Name: "Service Request"},
		},
		Status: map[string]int{},
		Reply:  map[string]string{},
		Reject: map[string]map[string]bool{},
		id:     100,
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))

	return s
}

func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) TokenURL() string {
	return s.URL + "/auth/token"
}

// Requests returns the requests received for a path, or all requests if path is empty.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := []Request{}
	for _, rq := range s.requests {
		if path == "" || rq.Path == path {
			list = append(list, rq)
		}
	}

	return list
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rq := Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	}

	if r.URL.Path == "/auth/token" {
		rq.Form, _ = url.ParseQuery(string(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, rq)
	status, override := s.Status[r.URL.Path]
	reply, replace := s.Reply[r.URL.Path]
	reject := s.Reject[r.URL.Path]
	s.id++
	id := s.id
	s.mu.Unlock()

	if r.URL.Path == "/auth/token" {
		if override && (status < 200 || status > 299) {
			http.Error(w, `{"error":"invalid_client"}`, status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if override {
			w.WriteHeader(status)
		}
		fmt.Fprintf(w, `{"access_token":%q,"token_type":"bearer","expires_in":3600}`, s.Token)
		return
	}

	if !strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	if rq.Authorization != "Bearer "+s.Token {
		http.Error(w, "unauthorised", http.StatusUnauthorized)
		return
	}

	if override {
		w.WriteHeader(status)
		if replace {
			io.WriteString(w, reply)
		} else {
			io.WriteString(w, http.StatusText(status))
		}
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/TicketType":
		w.Header().Set("Content-Type", "application/json")
		if replace {
			io.WriteString(w, reply)
		} else {
			json.NewEncoder(w).Encode(s.TicketTypes)
		}

	case r.Method == http.MethodPost:
		if items, err := rq.Items(); err != nil || len(items) != 1 {
			http.Error(w, "expected a single item array", http.StatusBadRequest)
			return
		} else if name, _ := items[0]["name"].(string); reject[name] {
			http.Error(w, fmt.Sprintf("rejected '%v'", name), http.StatusBadRequest)
			return
		} else if name, _ := items[0]["category_name"].(string); reject[name] {
			http.Error(w, fmt.Sprintf("rejected '%v'", name), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if replace {
			io.WriteString(w, reply)
		} else {
			fmt.Fprintf(w, `{"id":%d}`, id)
		}

	default:
		http.NotFound(w, r)
	}
}
