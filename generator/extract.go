package generator

import (
	"strings"

	"google.golang.org/genai"
)

// textProvider matches SDK response types that expose their aggregated text
// directly, such as *genai.GenerateContentResponse.
type textProvider interface {
	Text() string
}

// ExtractText probes an opaque generation response for its plain text.
// The response shape is not contractually guaranteed across model versions
// or transport modes, so a small ordered rule list is applied; the order is
// the contract. Any internal fault is swallowed and reported as absence,
// never as an error.
//
// Rules, first match wins:
//  1. the value exposes a Text() string method with non-empty output
//  2. a map with a non-empty string under "text" or "content"
//  3. a map with a list under "candidates", "outputs" or "choices"; the
//     first non-empty list wins the key probe, and only its first element
//     is inspected, either a map probed for "output"/"content"/"text" or a
//     non-empty string used directly
//  4. a typed genai response, walking the first candidate's content parts
func ExtractText(v any) (out string, ok bool) {
	defer func() {
		// SDK accessors can panic on partially populated responses.
		if r := recover(); r != nil {
			out, ok = "", false
		}
	}()

	if v == nil {
		return "", false
	}

	if tp, isTP := v.(textProvider); isTP {
		if s := strings.TrimSpace(tp.Text()); s != "" {
			return s, true
		}
	}

	if m, isMap := v.(map[string]any); isMap {
		for _, key := range []string{"text", "content"} {
			if s := nonEmptyString(m[key]); s != "" {
				return s, true
			}
		}
		if s, found := extractFromCandidateList(m); found {
			return s, true
		}
	}

	if resp, isResp := v.(*genai.GenerateContentResponse); isResp {
		if s, found := extractFromGenaiCandidates(resp); found {
			return s, true
		}
	}

	return "", false
}

// extractFromCandidateList probes the first element of a candidates-style
// list. Only an empty or missing list lets the next key be tried; once a
// non-empty list is found the probe commits to it, and a first element
// with no recognizable text means absence even when a later key holds a
// usable list.
func extractFromCandidateList(m map[string]any) (string, bool) {
	for _, key := range []string{"candidates", "outputs", "choices"} {
		list, isList := m[key].([]any)
		if !isList || len(list) == 0 {
			continue
		}
		first := list[0]
		if fm, isMap := first.(map[string]any); isMap {
			for _, k := range []string{"output", "content", "text"} {
				if s := nonEmptyString(fm[k]); s != "" {
					return s, true
				}
			}
		}
		if s := nonEmptyString(first); s != "" {
			return s, true
		}
		return "", false
	}
	return "", false
}

func extractFromGenaiCandidates(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	first := resp.Candidates[0]
	if first == nil || first.Content == nil {
		return "", false
	}
	var sb strings.Builder
	for _, part := range first.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if s := strings.TrimSpace(sb.String()); s != "" {
		return s, true
	}
	return "", false
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
