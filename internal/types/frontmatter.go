package types

type (
	// ValidationResult reports whether a page's front matter satisfies the
	// content contract.
	ValidationResult struct {
		IsValid  bool     `json:"isValid"`
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
)
