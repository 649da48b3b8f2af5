package harvest

import "strings"

// OutputItem is the fixed output schema for one item. Missing optional
// fields serialize as empty strings, never null and never omitted.
type OutputItem struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	SourceURL   string      `json:"source_url"`
	Author      string      `json:"author"`
	UserID      string      `json:"user_id"`
}

// Output is the JSON document emitted at the end of a run: all valid,
// deduplicated items under a team envelope. It is immutable once built.
type Output struct {
	TeamID string       `json:"team_id"`
	Items  []OutputItem `json:"items"`
}

// FormatItems maps items to the output schema. Items are assumed to be
// already validity-filtered and deduplicated; ordering is preserved, so
// serialization is deterministic given the same input order. ContentType
// defaults to "blog" when the source scraper did not set one.
func FormatItems(items []*Item, teamID, userID string) *Output {
	out := &Output{
		TeamID: teamID,
		Items:  make([]OutputItem, 0, len(items)),
	}
	for _, item := range items {
		ct := item.ContentType
		if ct == "" {
			ct = ContentTypeBlog
		}
		out.Items = append(out.Items, OutputItem{
			Title:       strings.TrimSpace(item.Title),
			Content:     strings.TrimSpace(item.Content),
			ContentType: ct,
			SourceURL:   item.SourceURL,
			Author:      strings.TrimSpace(item.Author),
			UserID:      userID,
		})
	}
	return out
}

// validContentTypes is the closed set accepted by the output schema.
var validContentTypes = map[ContentType]bool{
	ContentTypeBlog:           true,
	ContentTypeGuide:          true,
	ContentTypeInterviewGuide: true,
	ContentTypeBook:           true,
	ContentTypeOther:          true,
}

// ValidateOutput checks the document against the output schema without
// altering it. It returns an EINVALID-coded error with a human-readable
// reason on the first violation found.
func ValidateOutput(doc *Output) error {
	if doc == nil {
		return Errorf(EINVALID, "output document required")
	}
	if doc.TeamID == "" {
		return Errorf(EINVALID, "output team_id required")
	}
	for i, item := range doc.Items {
		if item.Title == "" {
			return Errorf(EINVALID, "item %d: title required", i)
		}
		if item.Content == "" {
			return Errorf(EINVALID, "item %d: content required", i)
		}
		if !validContentTypes[item.ContentType] {
			return Errorf(EINVALID, "item %d: unknown content_type %q", i, item.ContentType)
		}
	}
	return nil
}
