package category

// Category is the stored classification label of a submission.
type Category string

// Stored labels are kept byte-for-byte compatible with existing feedback databases.
const (
	Urgent     Category = "緊急客訴 (Urgent)"
	Positive   Category = "正面好評 (Positive)"
	Suggestion Category = "產品建議 (Suggestion)"
	General    Category = "一般回饋 (General)"
)

// All lists the labels in rule priority order.
var All = []Category{Urgent, Positive, Suggestion, General}

func (c Category) String() string {
	return string(c)
}

// Key is the short ascii identifier used by the JSON API and metrics.
func (c Category) Key() string {
	switch c {
	case Urgent:
		return "urgent"
	case Positive:
		return "positive"
	case Suggestion:
		return "suggestion"
	case General:
		return "general"
	default:
		return "unknown"
	}
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Key:   c.Key(),
		Label: c.String(),
	}
}
