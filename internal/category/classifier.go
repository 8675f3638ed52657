package category

import (
	"strings"
)

var (
	DefaultNegativeKeywords   = []string{"慢", "差", "生氣", "爛"}
	DefaultPositiveKeywords   = []string{"讚", "好", "喜歡", "棒"}
	DefaultSuggestionKeywords = []string{"建議", "希望", "可以"}
)

// Keywords configures the three rule sets. A nil set falls back to its default.
type Keywords struct {
	Negative   []string
	Positive   []string
	Suggestion []string
}

type rule struct {
	keywords []string
	category Category
}

// Classifier maps free text to a Category using ordered substring rules.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []rule
}

func NewClassifier(kw Keywords) *Classifier {
	return &Classifier{
		rules: []rule{
			{keywords: normalize(kw.Negative, DefaultNegativeKeywords), category: Urgent},
			{keywords: normalize(kw.Positive, DefaultPositiveKeywords), category: Positive},
			{keywords: normalize(kw.Suggestion, DefaultSuggestionKeywords), category: Suggestion},
		},
	}
}

// NewDefaultClassifier uses the built-in keyword sets.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(Keywords{})
}

// Classify treats a nil comment as empty text.
func (c *Classifier) Classify(comment *string) Category {
	if comment == nil {
		return General
	}
	return c.ClassifyText(*comment)
}

// ClassifyText returns the category of the first rule with a keyword contained in text.
// Matching is plain substring containment, so a keyword inside a longer word still counts.
func (c *Classifier) ClassifyText(text string) Category {
	text = strings.ToLower(text)
	if text == "" {
		return General
	}

	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
	}
	return General
}

// empty keywords are dropped; strings.Contains(x, "") is always true
func normalize(keywords, fallback []string) []string {
	if keywords == nil {
		keywords = fallback
	}
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
