package department

import (
	"sort"
	"strings"
)

// Defaults is the recipient table used when no departments are configured.
var Defaults = map[string][]string{
	"5542": {"S21610@chipmos.com"},
	"HR":   {"hr@chipmos.com"},
}

// Directory is the read-only department code to manager address table.
type Directory struct {
	recipients map[string][]string
	codes      []string
}

// NewDirectory copies table, trimming addresses and dropping blanks.
// An empty table falls back to Defaults.
func NewDirectory(table map[string][]string) *Directory {
	if len(table) == 0 {
		table = Defaults
	}

	d := &Directory{recipients: make(map[string][]string, len(table))}
	for code, addrs := range table {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		cleaned := make([]string, 0, len(addrs))
		for _, addr := range addrs {
			if addr = strings.TrimSpace(addr); addr != "" {
				cleaned = append(cleaned, addr)
			}
		}
		d.recipients[code] = cleaned
		d.codes = append(d.codes, code)
	}
	sort.Strings(d.codes)
	return d
}

// Lookup returns a copy of the recipients for code. Codes are matched exactly.
func (d *Directory) Lookup(code string) ([]string, bool) {
	addrs, ok := d.recipients[code]
	if !ok {
		return nil, false
	}
	out := make([]string, len(addrs))
	copy(out, addrs)
	return out, true
}

// Codes returns the department codes sorted for display.
func (d *Directory) Codes() []string {
	out := make([]string, len(d.codes))
	copy(out, d.codes)
	return out
}
