package dispatch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonwraymond/safelaw/fault"
)

// maxSummaryLen bounds the summary so callers cannot blow up downstream
// consumers by submitting arbitrarily large snippet sets.
const maxSummaryLen = 2000

// handleSummarize joins the provided snippets into a single summary string.
func handleSummarize(args map[string]any) (any, error) {
	raw, ok := args["snippets"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fault.New(fault.KindBadRequest, "snippets is required and must be a non-empty array")
	}

	parts := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fault.New(fault.KindBadRequest, "snippets must contain only strings")
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil, fault.New(fault.KindBadRequest, "snippets contained no usable text")
	}

	summary := truncateRunes(strings.Join(parts, " "), maxSummaryLen)
	return map[string]any{"summary": summary}, nil
}

// truncateRunes cuts s to at most maxBytes without splitting a multi-byte
// rune, so Korean text stays valid UTF-8.
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// handlePlan turns a list of law items into an ordered action checklist.
// Items without a title are skipped; the link is passed through when present.
func handlePlan(args map[string]any) (any, error) {
	raw, ok := args["lawItems"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fault.New(fault.KindBadRequest, "lawItems is required and must be a non-empty array")
	}

	steps := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		item, ok := v.(map[string]any)
		if !ok {
			continue
		}
		title := stringArg(item, "title")
		if title == "" {
			continue
		}
		step := map[string]any{
			"step":   len(steps) + 1,
			"title":  title,
			"action": fmt.Sprintf("%s의 요구사항을 검토하고 준수 여부를 확인하세요.", title),
		}
		if link := stringArg(item, "resolvedLink"); link != "" {
			step["link"] = link
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, fault.New(fault.KindBadRequest, "lawItems contained no items with a title")
	}

	return map[string]any{"plan": steps}, nil
}
