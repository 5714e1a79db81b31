// Package query implements item filters: an optional id plus an optional
// required-NBT pattern matched structurally against an item's component
// data.
package query

import (
	"log/slog"
	"strings"

	"github.com/Lemonzyy/nbt-sniffer/pkg/nbt"
)

const namespacePrefix = "minecraft:"

// Filter selects items by id and/or a structural component pattern. An
// empty ID matches any id; a nil Required imposes no structural constraint.
type Filter struct {
	ID       string
	Required nbt.Value
}

// Matches reports whether an item with the given id and component data
// (nil when absent) satisfies the filter.
func (f Filter) Matches(id string, components nbt.Value) bool {
	if f.ID != "" && f.ID != id {
		return false
	}
	if f.Required == nil {
		return true
	}
	if components == nil {
		return false
	}
	return nbt.IsSubset(components, f.Required)
}

// MatchesAny applies OR semantics over filters; an empty filter set matches
// everything.
func MatchesAny(filters []Filter, id string, components nbt.Value) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if f.Matches(id, components) {
			return true
		}
	}
	return false
}

// ParseItemArgs parses raw CLI item arguments of the form ID{snbt}. The id
// part gets the minecraft: namespace prepended when missing; an empty id
// part means "any id". Malformed SNBT degrades the filter to id-only so a
// scan still produces useful results, matching the tool's best-effort
// policy.
func ParseItemArgs(logger *slog.Logger, raw []string) []Filter {
	filters := make([]Filter, 0, len(raw))
	for _, entry := range raw {
		idPart := entry
		var required nbt.Value

		if start := strings.Index(entry, "{"); start >= 0 {
			if end := strings.LastIndex(entry, "}"); end > start {
				idPart = entry[:start]
				literal := entry[start : end+1]
				parsed, err := nbt.ParseSNBT(literal)
				if err != nil {
					logger.Warn("Ignoring malformed NBT filter, matching by id only", "arg", entry, "error", err)
				} else {
					required = parsed
				}
			}
		}

		id := idPart
		if id != "" && !strings.HasPrefix(id, namespacePrefix) {
			id = namespacePrefix + id
		}

		filters = append(filters, Filter{ID: id, Required: required})
	}
	return filters
}
