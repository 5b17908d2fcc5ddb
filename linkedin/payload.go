package linkedin

import (
	"strings"
	"unicode"
)

// MaxCommentaryLength is the platform-enforced limit on post commentary.
const MaxCommentaryLength = 3000

const ellipsis = "..."

// SafeTruncate bounds text to max runes. Over-limit text keeps the first
// max-3 runes, drops trailing whitespace and appends the ellipsis marker, so
// the result never exceeds max including the marker. Text already within
// bounds comes back unchanged. A max too small to hold the marker yields a
// bare cut at max runes.
func SafeTruncate(text string, max int) string {
	rs := []rune(text)
	if len(rs) <= max {
		return text
	}
	if max < len(ellipsis) {
		if max < 0 {
			max = 0
		}
		return string(rs[:max])
	}
	head := strings.TrimRightFunc(string(rs[:max-len(ellipsis)]), unicode.IsSpace)
	return head + ellipsis
}

// OrganizationURN builds the author URN for an organization id.
func OrganizationURN(orgID string) string {
	return "urn:li:organization:" + orgID
}

// UGCPayload is the body of a UGC post creation request. The nested key
// names are part of the wire contract.
type UGCPayload struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent SpecificContent `json:"specificContent"`
	Visibility      Visibility      `json:"visibility"`
}

type SpecificContent struct {
	ShareContent ShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ShareContent struct {
	ShareCommentary    ShareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
}

type ShareCommentary struct {
	Text string `json:"text"`
}

type Visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// BuildUGCPayload assembles a publish payload for an organization post.
// Pure function of its inputs; commentary is truncated to the platform
// limit.
func BuildUGCPayload(orgID, text string) UGCPayload {
	return UGCPayload{
		Author:         OrganizationURN(orgID),
		LifecycleState: "PUBLISHED",
		SpecificContent: SpecificContent{
			ShareContent: ShareContent{
				ShareCommentary:    ShareCommentary{Text: SafeTruncate(text, MaxCommentaryLength)},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: Visibility{
			MemberNetworkVisibility: "PUBLIC",
		},
	}
}
