// Package banks resolves free-form bank names to canonical identities and
// maps those identities to display descriptors. Naming variants coming
// back from the API ("Itaú", "itau", "ITAÚ ") must collapse to one group
// key so dashboard grouping works.
package banks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"github.com/clearsheet/clearsheet/internal/ledger"
)

// Descriptor is the display record for a canonical bank identity.
type Descriptor struct {
	Title string `toml:"title"`
	Icon  string `toml:"icon"`
	Color string `toml:"color"`
}

// Registry holds the alias table and descriptor lookup. A Registry is
// immutable after construction.
type Registry struct {
	aliases     map[string]string // folded alias -> canonical key
	descriptors map[string]Descriptor
	keys        []string // canonical keys, sorted, for fuzzy fallback
}

type bankEntry struct {
	Key     string   `toml:"key"`
	Title   string   `toml:"title"`
	Icon    string   `toml:"icon"`
	Color   string   `toml:"color"`
	Aliases []string `toml:"aliases"`
}

type registryFile struct {
	Bank []bankEntry `toml:"bank"`
}

const defaultBanksTOML = `# ClearSheet bank identities.
# Add [[bank]] blocks to teach the client new aliases or icons.

[[bank]]
key = "banco do brasil"
title = "Banco do Brasil"
icon = "🟡"
color = "#f9e2af"
aliases = ["bb", "banco brasil"]

[[bank]]
key = "itau"
title = "Itaú"
icon = "🟠"
color = "#fab387"
aliases = ["itau unibanco", "banco itau"]

[[bank]]
key = "nubank"
title = "Nubank"
icon = "🟣"
color = "#cba6f7"
aliases = ["nu", "nu pagamentos"]

[[bank]]
key = "caixa"
title = "Caixa"
icon = "🔵"
color = "#89b4fa"
aliases = ["cef", "caixa economica federal"]

[[bank]]
key = "bradesco"
title = "Bradesco"
icon = "🔴"
color = "#f38ba8"
aliases = ["banco bradesco"]

[[bank]]
key = "santander"
title = "Santander"
icon = "❤️"
color = "#eba0ac"
aliases = ["banco santander"]

[[bank]]
key = "inter"
title = "Inter"
icon = "🧡"
color = "#fab387"
aliases = ["banco inter"]

[[bank]]
key = "c6"
title = "C6 Bank"
icon = "⬛"
color = "#585b70"
aliases = ["c6 bank", "banco c6"]
`

// Default returns the built-in registry.
func Default() *Registry {
	r, err := parse([]byte(defaultBanksTOML))
	if err != nil {
		// The embedded table is validated by tests; an empty registry
		// still resolves every name to its folded form.
		return &Registry{aliases: map[string]string{}, descriptors: map[string]Descriptor{}}
	}
	return r
}

// LoadOrInit reads the bank table from path, writing the defaults there
// first if the file does not exist yet.
func LoadOrInit(path string) (*Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return Default(), fmt.Errorf("create banks dir: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultBanksTOML), 0o644); wErr != nil {
			return Default(), fmt.Errorf("write default banks.toml: %w", wErr)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read banks.toml: %w", err)
	}
	r, err := parse(data)
	if err != nil {
		return Default(), err
	}
	return r, nil
}

func parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse banks.toml: %w", err)
	}
	r := &Registry{
		aliases:     make(map[string]string),
		descriptors: make(map[string]Descriptor),
	}
	for i, b := range f.Bank {
		key := ledger.Fold(b.Key)
		if key == "" {
			return nil, fmt.Errorf("bank[%d]: key is required", i)
		}
		r.descriptors[key] = Descriptor{Title: b.Title, Icon: b.Icon, Color: b.Color}
		r.aliases[key] = key
		for _, a := range b.Aliases {
			if folded := ledger.Fold(a); folded != "" {
				r.aliases[folded] = key
			}
		}
	}
	for key := range r.descriptors {
		r.keys = append(r.keys, key)
	}
	sort.Strings(r.keys)
	return r, nil
}

// Resolve maps a raw bank name to its canonical group key: fold, alias
// table, then a distance-1 fuzzy match against known keys for typos, then
// the folded name itself.
func (r *Registry) Resolve(name string) string {
	folded := ledger.Fold(name)
	if folded == "" {
		return ""
	}
	if key, ok := r.aliases[folded]; ok {
		return key
	}
	for _, key := range r.keys {
		if levenshtein.ComputeDistance(folded, key) <= 1 {
			return key
		}
	}
	return folded
}

// Lookup returns the descriptor for a canonical key.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	d, ok := r.descriptors[key]
	return d, ok
}

// Title returns the display title for a canonical key, falling back to
// the key itself for banks the registry has never heard of.
func (r *Registry) Title(key string) string {
	if d, ok := r.descriptors[key]; ok && d.Title != "" {
		return d.Title
	}
	return key
}
