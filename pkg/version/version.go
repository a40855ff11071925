/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/iitd/falcon-deploy/pkg/errors"
)

// LatestKeyword is the sentinel tag meaning "resolve to the newest available
// version" rather than a literal image tag.
const LatestKeyword = "latest"

// Tuple is a parsed version as a sequence of integer components.
// Comparison is lexicographic over the integers only; there is no
// pre-release precedence.
type Tuple []int

// ParseTuple converts a tag like "7.2.0" or "7.2.0-rc1" into a Tuple.
// Anything after the first '-' is discarded before parsing. Tags that do not
// parse as dot-separated integers yield Tuple{0}, which sorts below every
// real version.
func ParseTuple(tag string) Tuple {
	base, _, _ := strings.Cut(tag, "-")
	parts := strings.Split(base, ".")
	t := make(Tuple, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Tuple{0}
		}
		t = append(t, n)
	}
	if len(t) == 0 {
		return Tuple{0}
	}
	return t
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater than o.
// Shorter tuples that are a prefix of longer ones compare as less.
func (t Tuple) Compare(o Tuple) int {
	for i := 0; i < len(t) && i < len(o); i++ {
		switch {
		case t[i] < o[i]:
			return -1
		case t[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(t) < len(o):
		return -1
	case len(t) > len(o):
		return 1
	}
	return 0
}

// String renders the tuple in dotted form, e.g. "7.2.0".
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// ListTagsFunc supplies the available tags for a component image.
type ListTagsFunc func() ([]string, error)

// Resolution is the outcome of resolving a requested tag against the catalog
// and any installed release.
type Resolution struct {
	// Tag is the resolved target image tag.
	Tag string

	// AlreadyCurrent signals that the installed release is at or ahead of the
	// target; no operation should be queued. Control signal, not an error.
	AlreadyCurrent bool
}

// Candidates filters and orders tags for latest-resolution: the literal
// "latest" and tags not starting with a digit are discarded, the remainder is
// sorted newest-first by integer tuple.
func Candidates(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == LatestKeyword || tag == "" {
			continue
		}
		if !unicode.IsDigit(rune(tag[0])) {
			continue
		}
		out = append(out, tag)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ParseTuple(out[i]).Compare(ParseTuple(out[j])) > 0
	})
	return out
}

// Resolve decides the target version for a component.
//
// A concrete (non-"latest") requested tag is returned unchanged: explicit
// pins are never overridden. The "latest" sentinel queries the catalog and
// picks the newest versioned tag, failing with a VERSION_RESOLUTION error
// when no candidates remain (the caller may then prompt for a manual tag).
//
// When installed is non-empty (upgrade path) and the target compares at or
// below it, the resolution carries the AlreadyCurrent signal.
func Resolve(requested, installed string, list ListTagsFunc) (*Resolution, error) {
	target := requested
	if requested == LatestKeyword {
		tags, err := list()
		if err != nil {
			return nil, err
		}
		candidates := Candidates(tags)
		if len(candidates) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeVersionResolution,
				"no versioned tags available for latest-resolution")
		}
		target = candidates[0]
	}

	res := &Resolution{Tag: target}
	if installed != "" && ParseTuple(target).Compare(ParseTuple(installed)) <= 0 {
		res.AlreadyCurrent = true
	}
	return res, nil
}
