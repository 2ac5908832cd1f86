package schema

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// Stock rules for common attribute shapes. Exact-equality compatibility is
// the zero Strategy and needs no constructor.

// Prefer returns a disambiguation rule that narrows to the given value when
// it is among the candidates, and otherwise leaves the set unchanged. This
// models a declared default such as "prefer jar over classes".
func Prefer(value any) DisambiguationRule {
	return func(_ any, candidates []any) []any {
		for _, c := range candidates {
			if c == value {
				return []any{value}
			}
		}
		return candidates
	}
}

// PreferenceOrder returns a disambiguation rule that narrows to the first
// listed value present among the candidates. Values outside the list leave
// the set unchanged.
func PreferenceOrder(values ...any) DisambiguationRule {
	return func(_ any, candidates []any) []any {
		for _, v := range values {
			for _, c := range candidates {
				if c == v {
					return []any{v}
				}
			}
		}
		return candidates
	}
}

// AtMostRequested returns a compatibility rule for int-kinded attributes
// where any candidate value less than or equal to the requested value
// satisfies the request. Typical for target platform levels: a consumer on
// level 9 can run a level 8 artifact, never a level 11 one.
func AtMostRequested() CompatibilityRule {
	return func(requested, candidate any) bool {
		req, ok1 := requested.(int)
		cand, ok2 := candidate.(int)
		return ok1 && ok2 && cand <= req
	}
}

// LargestValue returns a disambiguation rule for int-kinded attributes that
// prefers the largest candidate not exceeding the requested value, or the
// largest overall when the attribute is not part of the request.
func LargestValue() DisambiguationRule {
	return func(requested any, candidates []any) []any {
		limit, limited := requested.(int)
		best := 0
		found := false
		for _, c := range candidates {
			v, ok := c.(int)
			if !ok {
				continue
			}
			if limited && v > limit {
				continue
			}
			if !found || v > best {
				best = v
				found = true
			}
		}
		if !found {
			return candidates
		}
		return []any{best}
	}
}

// VersionAtMostRequested returns a compatibility rule for string-kinded
// attributes holding versions, where any candidate version less than or
// equal to the requested version is compatible. Unparseable values are
// incompatible.
func VersionAtMostRequested() CompatibilityRule {
	return func(requested, candidate any) bool {
		req, err1 := parseVersion(requested)
		cand, err2 := parseVersion(candidate)
		if err1 != nil || err2 != nil {
			return false
		}
		return !cand.GreaterThan(req)
	}
}

// ClosestVersion returns a disambiguation rule for string-kinded version
// attributes that prefers the highest candidate version not above the
// requested version, or the highest overall when the attribute is not
// requested. Unparseable candidates are never preferred unless nothing
// parses.
func ClosestVersion() DisambiguationRule {
	return func(requested any, candidates []any) []any {
		var limit *semver.Version
		if requested != nil {
			if v, err := parseVersion(requested); err == nil {
				limit = v
			}
		}
		var best any
		var bestVer *semver.Version
		for _, c := range candidates {
			v, err := parseVersion(c)
			if err != nil {
				continue
			}
			if limit != nil && v.GreaterThan(limit) {
				continue
			}
			if bestVer == nil || v.GreaterThan(bestVer) {
				best = c
				bestVer = v
			}
		}
		if bestVer == nil {
			return candidates
		}
		return []any{best}
	}
}

// parseVersion accepts the value shapes version attributes occur in: semver
// strings, bare numeric strings ("8", "1.8"), and ints.
func parseVersion(v any) (*semver.Version, error) {
	switch t := v.(type) {
	case string:
		return semver.NewVersion(t)
	case int:
		return semver.NewVersion(strconv.Itoa(t))
	default:
		return nil, fmt.Errorf("not a version value: %v (%T)", v, v)
	}
}
