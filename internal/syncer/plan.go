package syncer

import (
	"sort"
	"strings"
	"time"
)

// Key identifies one logical watch item across both stores. An empty
// Exchange and a NULL one are the same venue.
type Key struct {
	Symbol   string
	Exchange string
}

// NormalizeKey builds a Key with the store-independent spelling.
func NormalizeKey(symbol, exchange string) Key {
	return Key{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Exchange: strings.ToUpper(strings.TrimSpace(exchange)),
	}
}

// Entry is a store-agnostic snapshot of one watch row. A zero UpdatedAt
// means the store never recorded an update time; such rows lose every
// timestamp comparison.
type Entry struct {
	ID        int64
	Symbol    string
	Exchange  string
	Active    bool
	UpdatedAt time.Time
}

// ActionKind enumerates the four reconciliation writes.
type ActionKind int

const (
	ActionInsertLegacy ActionKind = iota
	ActionInsertCanonical
	ActionUpdateLegacy
	ActionUpdateCanonical
)

func (k ActionKind) String() string {
	switch k {
	case ActionInsertLegacy:
		return "insert-legacy"
	case ActionInsertCanonical:
		return "insert-canonical"
	case ActionUpdateLegacy:
		return "update-legacy"
	case ActionUpdateCanonical:
		return "update-canonical"
	default:
		return "unknown"
	}
}

// Action is one planned write against one store. TargetID is set for
// updates only.
type Action struct {
	Kind     ActionKind
	Key      Key
	TargetID int64
	Active   bool
	Reason   string
}

// Plan computes the writes that reconcile two store snapshots. It is a pure
// function: no I/O, deterministic output order (sorted by key), and the
// canonical store wins exact-tie conflicts by definition.
func Plan(legacy, canonical []Entry) []Action {
	legacyByKey := indexByKey(legacy)
	canonicalByKey := indexByKey(canonical)

	keys := make([]Key, 0, len(legacyByKey)+len(canonicalByKey))
	for key := range legacyByKey {
		keys = append(keys, key)
	}
	for key := range canonicalByKey {
		if _, dup := legacyByKey[key]; !dup {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Symbol != keys[j].Symbol {
			return keys[i].Symbol < keys[j].Symbol
		}
		return keys[i].Exchange < keys[j].Exchange
	})

	actions := make([]Action, 0)
	for _, key := range keys {
		leg, inLegacy := legacyByKey[key]
		can, inCanonical := canonicalByKey[key]

		switch {
		case !inLegacy:
			actions = append(actions, Action{
				Kind: ActionInsertLegacy, Key: key, Active: can.Active,
				Reason: "missing in legacy store",
			})
		case !inCanonical:
			actions = append(actions, Action{
				Kind: ActionInsertCanonical, Key: key, Active: leg.Active,
				Reason: "missing in canonical store",
			})
		case leg.Active == can.Active:
			// Converged; nothing to do.
		case can.UpdatedAt.After(leg.UpdatedAt):
			actions = append(actions, Action{
				Kind: ActionUpdateLegacy, Key: key, TargetID: leg.ID, Active: can.Active,
				Reason: "canonical newer",
			})
		case leg.UpdatedAt.After(can.UpdatedAt):
			actions = append(actions, Action{
				Kind: ActionUpdateCanonical, Key: key, TargetID: can.ID, Active: leg.Active,
				Reason: "legacy newer",
			})
		default:
			// Equal timestamps, including both-missing: canonical is the
			// source of truth for ties.
			actions = append(actions, Action{
				Kind: ActionUpdateLegacy, Key: key, TargetID: leg.ID, Active: can.Active,
				Reason: "tie, canonical wins",
			})
		}
	}
	return actions
}

func indexByKey(entries []Entry) map[Key]Entry {
	index := make(map[Key]Entry, len(entries))
	for _, entry := range entries {
		key := NormalizeKey(entry.Symbol, entry.Exchange)
		if _, dup := index[key]; dup {
			// (symbol, exchange) is unique per store; keep the first row if
			// the invariant is ever violated upstream.
			continue
		}
		index[key] = entry
	}
	return index
}
