package feedback

import (
	"fmt"

	"github.com/frahmantamala/feedback-collector/internal/notification"
)

const (
	MessageSuccess = "success"
	MessageError   = "error"
)

const (
	MsgNotified         = "感謝！通知已發送至 %s 部門主管信箱。"
	MsgNotifyFailed     = "回饋已儲存，但 Email 發送失敗 (請檢查郵件設定)。"
	MsgNoRecipients     = "感謝您的回饋！(此部門未設定通知信箱)"
	MsgInvalidRating    = "評分必須是整數。"
	MsgSubmissionFailed = "抱歉，回饋儲存失敗，請稍後再試。"
)

// Message is the user-facing result of a submission.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Outcome describes what happened to one submission.
type Outcome struct {
	Feedback *Feedback
	// Notification is nil when the department has no configured recipients.
	Notification *notification.Result
	Message      Message
}

func (o *Outcome) Notified() bool {
	return o.Notification != nil && o.Notification.OK()
}

func messageFor(department string, result *notification.Result) Message {
	switch {
	case result == nil:
		return Message{Kind: MessageSuccess, Text: MsgNoRecipients}
	case result.OK():
		return Message{Kind: MessageSuccess, Text: fmt.Sprintf(MsgNotified, department)}
	default:
		return Message{Kind: MessageError, Text: MsgNotifyFailed}
	}
}
