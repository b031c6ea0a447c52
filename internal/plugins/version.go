package plugins

import (
	"fmt"
	"math"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"forgebuild.dev/cli/internal/core/domain"
)

// NormalizeRange converts a plugin's required-version value into a semver
// range string. An integer major version N means ">=N.0.0 and <N+1.0.0,
// including pre-releases", written as ">=N.0.0-0 <N+1.0.0-0". The explicit
// bounds matter at N=0: a caret constraint with major 0 pins the whole
// version, so "^0.0.0-0" would reject 0.5.0. Values arrive from JSON or Lua
// manifests, so integers may be decoded as float64; a float with a fractional
// part is a contract violation, as is any non-number, non-string value.
func NormalizeRange(required interface{}) (string, error) {
	switch v := required.(type) {
	case int:
		return majorRange(int64(v)), nil
	case int64:
		return majorRange(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", &domain.InvalidRangeError{Value: required}
		}
		return majorRange(int64(v)), nil
	case string:
		return v, nil
	default:
		return "", &domain.InvalidRangeError{Value: required}
	}
}

func majorRange(n int64) string {
	return fmt.Sprintf(">=%d.0.0-0 <%d.0.0-0", n, n+1)
}

// versionLiteral matches a full semver literal inside a range expression,
// capturing any pre-release or build suffix.
var versionLiteral = regexp.MustCompile(`\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// widenForPrereleases rewrites bare version literals in a range to carry a
// "-0" pre-release floor. Semver comparators only admit pre-release versions
// when the comparator itself names a pre-release, so "^5.0.0" would silently
// exclude "5.1.0-beta.2"; the rewrite makes range checks pre-release
// inclusive, matching how plugin requirements are documented.
func widenForPrereleases(rng string) string {
	return versionLiteral.ReplaceAllStringFunc(rng, func(lit string) string {
		groups := versionLiteral.FindStringSubmatch(lit)
		if groups[1] != "" || groups[2] != "" {
			return lit
		}
		return lit + "-0"
	})
}

// CheckVersion reports whether version satisfies the range under
// pre-release-inclusive comparison. A range that fails to parse is reported
// as an InvalidRangeError.
func CheckVersion(version, rng string) (bool, error) {
	constraint, err := semver.NewConstraint(widenForPrereleases(rng))
	if err != nil {
		return false, &domain.InvalidRangeError{Value: rng}
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid host version %q: %w", version, err)
	}

	return constraint.Check(v), nil
}

// AssertVersion enforces a plugin's host version requirement. A range or
// argument problem yields InvalidRangeError; an unsatisfied range yields
// IncompatibleVersionError carrying both sides. Either error must abort the
// calling plugin's initialization.
func AssertVersion(pluginID, hostVersion string, required interface{}) error {
	rng, err := NormalizeRange(required)
	if err != nil {
		return err
	}

	ok, err := CheckVersion(hostVersion, rng)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.IncompatibleVersionError{
			PluginID: pluginID,
			Required: rng,
			Actual:   hostVersion,
		}
	}
	return nil
}
