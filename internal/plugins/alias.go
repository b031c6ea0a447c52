package plugins

import "strings"

// Plugin id conventions. Official plugins live under the @forge scope
// ("@forge/plugin-babel"); community plugins use the "forge-plugin-" prefix,
// optionally under their own scope ("@me/forge-plugin-babel"). Any of the
// conventional short forms resolves to the same canonical id.
const (
	officialScope = "@forge/"
	officialStem  = "plugin-"
	communityStem = "forge-plugin-"
)

// IsPluginID reports whether id follows one of the plugin naming conventions.
func IsPluginID(id string) bool {
	if strings.HasPrefix(id, officialScope) {
		return strings.HasPrefix(strings.TrimPrefix(id, officialScope), officialStem)
	}
	rest := id
	if strings.HasPrefix(rest, "@") {
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return false
		}
		rest = rest[slash+1:]
	}
	return strings.HasPrefix(rest, communityStem)
}

// ShortID strips the scope and plugin stem from a canonical id, leaving the
// bare plugin name ("@forge/plugin-babel" -> "babel").
func ShortID(id string) string {
	rest := id
	if strings.HasPrefix(rest, "@") {
		if slash := strings.Index(rest, "/"); slash >= 0 {
			rest = rest[slash+1:]
		}
	}
	rest = strings.TrimPrefix(rest, communityStem)
	rest = strings.TrimPrefix(rest, officialStem)
	return rest
}

// scopeOf returns the "@scope/" portion of an id, or "" for unscoped ids.
func scopeOf(id string) string {
	if !strings.HasPrefix(id, "@") {
		return ""
	}
	slash := strings.Index(id, "/")
	if slash < 0 {
		return ""
	}
	return id[:slash+1]
}

// MatchesPluginID reports whether input refers to the plugin with canonical id
// full. Accepted alias forms: the canonical id itself, the bare short name,
// the unscoped long form, and the short name qualified with the same scope.
func MatchesPluginID(input, full string) bool {
	if input == full {
		return true
	}
	if ShortID(input) != ShortID(full) {
		return false
	}
	inScope := scopeOf(input)
	return inScope == "" || inScope == scopeOf(full)
}
