package types

type (
	// PathFilterConfig contains extra rules for the content walk filter.
	PathFilterConfig struct {
		IgnoredPatterns   []string `json:"ignoredPatterns"`
		AllowedExtensions []string `json:"allowedExtensions"`
	}
)
