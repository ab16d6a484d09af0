// detect.go decides which surface dialect an application configuration is
// written in.
package config

// figIdentifierKeys are the keys whose presence marks a fig-dialect
// application definition. Exactly one of them must appear per definition;
// both at once makes the whole configuration ambiguous.
var figIdentifierKeys = []string{"build", "image"}

// countIdentifierKeys reports how many fig identifying keys a single
// application definition contains.
func countIdentifierKeys(appCfg map[string]interface{}) int {
	count := 0
	for _, key := range figIdentifierKeys {
		if _, ok := appCfg[key]; ok {
			count++
		}
	}
	return count
}

// IsFigFormat detects whether the supplied application configuration is
// in fig-compatible format.
//
// A configuration is fig-dialect when at least one top-level entry is a
// mapping containing exactly one identifying key ("image" or "build").
// The scan deliberately covers every entry even after the dialect has
// been determined: an entry carrying both identifying keys anywhere in
// the document aborts the whole configuration with an ambiguous-key
// error, regardless of position. This guards against mixed or corrupted
// documents being half-interpreted as fig.
//
// Entries whose value is not a mapping do not participate in detection;
// they are rejected later by whichever front end ends up parsing the
// document.
func IsFigFormat(cfg map[string]interface{}) (bool, error) {
	isFig := false
	for _, name := range sortedKeys(cfg) {
		appCfg, ok := asMapping(cfg[name])
		if !ok {
			continue
		}
		switch countIdentifierKeys(appCfg) {
		case 0:
			// Not an identifying entry; keep scanning.
		case 1:
			isFig = true
		default:
			return false, &ConfigError{
				Kind:        KindAmbiguousKey,
				Application: name,
				Detail:      "Must specify either 'build' or 'image'; found both.",
			}
		}
	}
	return isFig, nil
}
