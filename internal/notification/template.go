package notification

import (
	"fmt"

	"github.com/osteele/liquid"
)

const (
	DefaultSubjectTemplate = "【{{ department }}部門通知】新問卷：{{ category }} - 來自 {{ name }}"

	DefaultBodyTemplate = `部門主管您好，收到一筆歸屬於貴部門的問卷：
-----------------------------
部門：{{ department }}
姓名：{{ name }}
評分：{{ rating }} 星
系統分類：{{ category }}
內容：{{ comment }}
-----------------------------
(此為系統自動發信)
`
)

// Renderer turns Fields into a subject and body using Liquid templates.
type Renderer struct {
	subject *liquid.Template
	body    *liquid.Template
}

// NewRenderer parses both templates up front; blank strings select the defaults.
func NewRenderer(subjectTpl, bodyTpl string) (*Renderer, error) {
	if subjectTpl == "" {
		subjectTpl = DefaultSubjectTemplate
	}
	if bodyTpl == "" {
		bodyTpl = DefaultBodyTemplate
	}

	engine := liquid.NewEngine()

	subject, err := engine.ParseString(subjectTpl)
	if err != nil {
		return nil, fmt.Errorf("parse subject template: %w", err)
	}
	body, err := engine.ParseString(bodyTpl)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}

	return &Renderer{subject: subject, body: body}, nil
}

// NewDefaultRenderer panics only if the built-in templates fail to parse.
func NewDefaultRenderer() *Renderer {
	r, err := NewRenderer("", "")
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(f Fields) (subject, body string, err error) {
	bindings := liquid.Bindings{
		"department": f.Department,
		"name":       f.Name,
		"rating":     f.Rating,
		"category":   f.Category,
		"comment":    f.Comment,
	}

	subject, serr := r.subject.RenderString(bindings)
	if serr != nil {
		return "", "", fmt.Errorf("render subject: %w", serr)
	}
	body, berr := r.body.RenderString(bindings)
	if berr != nil {
		return "", "", fmt.Errorf("render body: %w", berr)
	}
	return subject, body, nil
}
