package search

import (
	"fmt"
	"strings"
)

// FormatHits renders hits as human-readable text.
func FormatHits(hits []Hit) string {
	if len(hits) == 0 {
		return "No resources found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d resource(s):\n\n", len(hits)))

	for i, h := range hits {
		r := h.Resource
		sb.WriteString(fmt.Sprintf("--- Result %d (similarity: %.4f) ---\n", i+1, h.Similarity))
		sb.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
		sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		if h.Subject != "" {
			sb.WriteString(fmt.Sprintf("Subject: %s\n", h.Subject))
		}
		if r.Type != "" {
			sb.WriteString(fmt.Sprintf("Type: %s\n", r.Type))
		}
		sb.WriteString(fmt.Sprintf("Language: %s\n", r.LanguageOrDefault()))
		if r.Link != "" {
			sb.WriteString(fmt.Sprintf("Link: %s\n", r.Link))
		}
		if r.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(r.Description)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
