package pipeline

import (
	"strings"
)

// HeadInjector defines the contract for head markup injection into HTML.
type HeadInjector interface {
	InjectHead(htmlContent, headContent string) string
}

// HeadInjection inserts markup into the head of an HTML document.
type HeadInjection struct{}

// InjectHead inserts headContent into htmlContent.
// Tries before </head> first, then after <body>, then prepends.
// Returns htmlContent unchanged if headContent is empty or already present,
// so injecting twice is safe.
func (h *HeadInjection) InjectHead(htmlContent, headContent string) string {
	if headContent == "" || strings.Contains(htmlContent, headContent) {
		return htmlContent
	}

	lowerHTML := strings.ToLower(htmlContent)
	block := headContent + "\n"

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return block + htmlContent
}
