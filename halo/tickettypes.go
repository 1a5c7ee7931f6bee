package halo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jcbmsp/halopsa-template-creator/report"
)

// Match identifies how a ticket type label was resolved.
type Match int

const (
	MatchNone Match = iota
	MatchDefault
	MatchExact
	MatchCompact
	MatchPartial
)

func (m Match) String() string {
	switch m {
	case MatchDefault:
		return "default"
	case MatchExact:
		return "exact"
	case MatchCompact:
		return "compact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// TicketTypes fetches the ticket type catalog.
func (c *Client) TicketTypes(ctx context.Context) ([]TicketType, error) {
	status, body, err := c.get(ctx, "TicketType")
	if err != nil {
		return nil, &report.Error{Kind: report.CatalogFetch, Op: "error retrieving ticket types", Err: err}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &report.Error{Kind: report.CatalogFetch, Op: "error retrieving ticket types", Status: status, Body: string(body)}
	}

	catalog := []TicketType{}
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, &report.Error{Kind: report.CatalogFetch, Op: "invalid ticket types response", Status: status, Err: err}
	}

	return catalog, nil
}

// ResolveTicketType returns the ID of the ticket type matching the label. The returned ID is always
// usable: an empty label, no match or a failure to retrieve the catalog all resolve to the configured
// default ID. A non-nil error reports a catalog failure that was recovered from.
//
// The catalog is fetched on every call.
func (c *Client) ResolveTicketType(ctx context.Context, label string) (int, Match, error) {
	fallback := c.conf.DefaultTicketTypeID

	if strings.TrimSpace(label) == "" {
		return fallback, MatchDefault, nil
	}

	catalog, err := c.TicketTypes(ctx)
	if err != nil {
		return fallback, MatchNone, err
	}

	if tt, match := MatchTicketType(catalog, label); match != MatchNone {
		return tt.ID, match, nil
	}

	return fallback, MatchNone, nil
}

// MatchTicketType finds the catalog entry for a free text ticket type label. The match tiers are
// tried in order, each across the whole catalog:
//
//   - exact: case insensitive equality after trimming
//   - compact: equality after reducing both to lowercase letters and digits
//   - partial: either one is a substring of the other
//
// Within a tier the first catalog entry wins. Returns MatchNone if nothing matched.
func MatchTicketType(catalog []TicketType, label string) (TicketType, Match) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return TicketType{}, MatchNone
	}

	for _, tt := range catalog {
		if strings.ToLower(strings.TrimSpace(tt.Name)) == key {
			return tt, MatchExact
		}
	}

	if k := compact(key); k != "" {
		for _, tt := range catalog {
			if compact(tt.Name) == k {
				return tt, MatchCompact
			}
		}
	}

	for _, tt := range catalog {
		name := strings.ToLower(strings.TrimSpace(tt.Name))
		if name != "" && (strings.Contains(name, key) || strings.Contains(key, name)) {
			return tt, MatchPartial
		}
	}

	return TicketType{}, MatchNone
}

func compact(s string) string {
	var b strings.Builder

	for _, ch := range strings.ToLower(s) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		}
	}

	return b.String()
}

func (tt TicketType) String() string {
	return fmt.Sprintf("%v (ID=%v)", tt.Name, tt.ID)
}
