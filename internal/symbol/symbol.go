// Package symbol manages symbols. Symbols are deduped strings represented as
// small integers so that identifier and object-key comparisons throughout
// lang are integer compares, not string compares.
package symbol

import (
	"sync"

	"github.com/grailbio/base/log"
)

// ID represents an interned symbol.
type ID int32

const (
	// Invalid is the zero value of ID, used as a "no symbol" sentinel.
	// Intern never returns it, not even for the empty string.
	Invalid = ID(0)
)

type table struct {
	mu   sync.Mutex
	ids  []string       // ids[id] == name, ids[0] is the "(invalid)" placeholder.
	syms map[string]ID
}

var symbols = newTable()

func newTable() *table {
	t := &table{
		ids:  make([]string, 1, 1024),
		syms: make(map[string]ID, 1024),
	}
	t.ids[0] = "(invalid)"
	return t
}

// Intern deduplicates name and returns its ID. Calling Intern twice with the
// same name returns the same ID.
func Intern(name string) ID {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	if id, ok := symbols.syms[name]; ok {
		return id
	}
	id := ID(len(symbols.ids))
	symbols.ids = append(symbols.ids, name)
	symbols.syms[name] = id
	return id
}

// Str returns the name this ID was interned from.
//
// REQUIRES: id was returned by a prior call to Intern.
func (id ID) Str() string {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	if int(id) >= len(symbols.ids) {
		log.Panicf("symbol: invalid id %d", id)
	}
	return symbols.ids[id]
}

// String implements fmt.Stringer.
func (id ID) String() string { return id.Str() }

// Reset clears the intern table. For unittests only.
func Reset() {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	*symbols = *newTable()
}
