package conversation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// selectionRE is the only accepted shape for a department selection:
// digits, optionally repeated as (comma, digits). Whitespace is stripped
// before matching.
var selectionRE = regexp.MustCompile(`^\d+(,\d+)*$`)

// Selection parse failures. Each maps to its own re-prompt text.
var (
	ErrSelectionEmpty      = errors.New("selection is empty")
	ErrSelectionBadFormat  = errors.New("selection is not a comma-separated number list")
	ErrSelectionOutOfRange = errors.New("selection index out of range")
)

// ParseSelection parses a comma-separated list of 1-based catalog indices.
// Duplicates are removed preserving first occurrence. Any index outside
// [1, size] rejects the whole input; there is no partial acceptance.
func ParseSelection(input string, size int) ([]int, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), " ", "")
	if normalized == "" {
		return nil, ErrSelectionEmpty
	}
	if !selectionRE.MatchString(normalized) {
		return nil, ErrSelectionBadFormat
	}

	parts := strings.Split(normalized, ",")
	seen := make(map[int]struct{}, len(parts))
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil {
			// digits-only by regexp; Atoi can still overflow
			return nil, ErrSelectionBadFormat
		}
		if idx < 1 || idx > size {
			return nil, ErrSelectionOutOfRange
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out, nil
}

// ResolveRegion resolves free-text region input against the fixed option
// list: either a 1-based index or a case-insensitive exact name match.
func ResolveRegion(input string, options []string) (string, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", false
	}
	if idx, err := strconv.Atoi(text); err == nil {
		if idx >= 1 && idx <= len(options) {
			return options[idx-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, text) {
			return opt, true
		}
	}
	return "", false
}
