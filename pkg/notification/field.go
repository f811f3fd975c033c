package notification

import "fmt"

// Field resolves a named payload field to its string form. The well-known
// fields are checked first, then the custom data map. The second return value
// reports whether the field is present at all; an empty string on a known
// field still counts as missing so filter operators treat it uniformly.
func (p Payload) Field(name string) (string, bool) {
	switch name {
	case "title":
		return p.Title, p.Title != ""
	case "body":
		return p.Body, p.Body != ""
	case "channel":
		return string(p.Channel), p.Channel != ""
	case "priority":
		return string(p.Priority), p.Priority != ""
	case "type":
		return p.Type, p.Type != ""
	case "category":
		return p.Category, p.Category != ""
	case "tag":
		return p.Tag, p.Tag != ""
	case "url", "target_url":
		return p.TargetURL, p.TargetURL != ""
	}

	if p.Data != nil {
		if v, ok := p.Data[name]; ok {
			return fmt.Sprintf("%v", v), true
		}
	}

	return "", false
}
