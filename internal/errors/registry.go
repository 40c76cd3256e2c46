package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// Configuration (E100-E109)
	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No pagewire.json or pagewire.yaml was found in the project directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The project file could not be parsed. Check the syntax around the reported line.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or has the wrong form.",
	},

	// Assets (E110-E119)
	"E110": {
		Category: CategoryAssets,
		Message:  "Asset manifest not found",
		Detail:   "The manifest file named by assets.manifest does not exist. Build the client bundles first, or remove the setting to run without an asset version.",
	},
	"E111": {
		Category: CategoryAssets,
		Message:  "Invalid asset manifest",
		Detail:   "The manifest must be a JSON object mapping source names to fingerprinted file names.",
	},
	"E112": {
		Category: CategoryAssets,
		Message:  "Could not fetch asset manifest from S3",
		Detail:   "The manifest object could not be read from the configured bucket.",
	},

	// Adapters (E120-E129)
	"E120": {
		Category: CategoryAdapter,
		Message:  "Unknown adapter",
		Detail:   "The configured adapter is not registered. Adapters are linked into the binary at build time.",
	},
	"E121": {
		Category: CategoryAdapter,
		Message:  "Adapter installed twice",
		Detail:   "The same adapter middleware was added to one pipeline more than once.",
	},

	// Serving (E130-E139)
	"E130": {
		Category: CategoryServe,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// Codes returns all registered codes, sorted.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a code. It is meant for init functions.
func Register(code string, t Template) {
	registry[code] = t
}
