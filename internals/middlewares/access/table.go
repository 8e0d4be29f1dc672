package access

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"studiofit_backend/internals/constants"
)

//go:embed table.yaml
var defaultTable []byte

type Access string

const (
	Public        Access = "public"
	Authenticated Access = "authenticated"
	Staff         Access = "staff"
	Admin         Access = "admin"
	Client        Access = "client"
)

const (
	ReasonPublic          = "public"
	ReasonAllowed         = "allowed"
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
)

type Rule struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Access  Access `yaml:"access" json:"access"`

	segs     []string
	literals int
}

type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Reason     string `json:"reason"`
	Access     Access `json:"access"`
	Rule       string `json:"rule,omitempty"`
}

type file struct {
	Login   string            `yaml:"login"`
	Default Access            `yaml:"default"`
	Homes   map[string]string `yaml:"homes"`
	Rules   []Rule            `yaml:"rules"`
}

type Table struct {
	login string
	def   Access
	homes map[string]string
	rules []Rule
}

// Default loads the embedded table.
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// Load reads the table at path, or the embedded one when path is empty.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access table: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse access table: %w", err)
	}
	t := &Table{
		login: f.Login,
		def:   f.Default,
		homes: f.Homes,
	}
	if t.login == "" {
		t.login = "/login"
	}
	if t.def == "" {
		t.def = Authenticated
	}
	if !validAccess(t.def) {
		return nil, fmt.Errorf("access table: unknown default %q", t.def)
	}
	for _, r := range f.Rules {
		if !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("access table: pattern %q must start with /", r.Pattern)
		}
		if !validAccess(r.Access) {
			return nil, fmt.Errorf("access table: pattern %q has unknown access %q", r.Pattern, r.Access)
		}
		r.segs = splitPath(r.Pattern)
		dynamic := 0
		for _, s := range r.segs {
			if isParam(s) {
				dynamic++
			} else {
				r.literals++
			}
		}
		if dynamic > 1 {
			return nil, fmt.Errorf("access table: pattern %q has more than one dynamic segment", r.Pattern)
		}
		t.rules = append(t.rules, r)
	}
	return t, nil
}

func validAccess(a Access) bool {
	switch a {
	case Public, Authenticated, Staff, Admin, Client:
		return true
	}
	return false
}

func isParam(seg string) bool {
	return len(seg) > 2 && seg[0] == '[' && seg[len(seg)-1] == ']'
}

// splitPath lower-cases segments; fiber routes paths case-insensitively.
func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(strings.ToLower(p), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Match returns the most specific rule covering path: most segments first,
// then most literal segments.
func (t *Table) Match(path string) (Rule, bool) {
	segs := splitPath(path)
	var (
		best  Rule
		found bool
	)
	for _, r := range t.rules {
		if !r.covers(segs) {
			continue
		}
		if !found ||
			len(r.segs) > len(best.segs) ||
			(len(r.segs) == len(best.segs) && r.literals > best.literals) {
			best, found = r, true
		}
	}
	return best, found
}

func (r Rule) covers(path []string) bool {
	if len(r.segs) > len(path) {
		return false
	}
	for i, s := range r.segs {
		if isParam(s) {
			continue
		}
		if s != path[i] {
			return false
		}
	}
	return true
}

// Check decides whether a caller with role may reach path.
// RedirectTo is only set for page paths; API callers get a status code instead.
func (t *Table) Check(path, role string, authenticated bool) Decision {
	access := t.def
	pattern := ""
	if r, ok := t.Match(path); ok {
		access, pattern = r.Access, r.Pattern
	}
	d := Decision{Access: access, Rule: pattern}
	api := isAPI(path)

	if access == Public {
		d.Allowed, d.Reason = true, ReasonPublic
		return d
	}
	if !authenticated {
		d.Reason = ReasonUnauthenticated
		if !api {
			d.RedirectTo = t.login + "?next=" + url.QueryEscape(path)
		}
		return d
	}
	if allows(access, role) {
		d.Allowed, d.Reason = true, ReasonAllowed
		return d
	}
	d.Reason = ReasonForbidden
	if !api {
		d.RedirectTo = t.home(role)
	}
	return d
}

func allows(a Access, role string) bool {
	switch a {
	case Public, Authenticated:
		return true
	case Staff:
		return constants.IsStaff(role)
	case Admin:
		return role == constants.RoleAdmin
	case Client:
		return role == constants.RoleClient
	}
	return false
}

func (t *Table) home(role string) string {
	if h, ok := t.homes[role]; ok && h != "" {
		return h
	}
	return "/dashboard"
}

func isAPI(path string) bool {
	path = strings.ToLower(path)
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
