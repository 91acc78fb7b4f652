package notification

// NotificationSystem represents a delivery channel (e.g. SMTP email, Resend API).
type NotificationSystem string

// NoticeType represents a kind of notification (e.g. "account_welcome").
type NoticeType string

const (
	EmailSystem  NotificationSystem = "email"
	ResendSystem NotificationSystem = "resend"

	// AccountWelcome is sent after an account has been provisioned
	AccountWelcome NoticeType = "account_welcome"
	// FeedbackReply is sent when an admin replies to user feedback
	FeedbackReply NoticeType = "feedback_reply"
	// AccountDeleted is sent after an admin removes an account
	AccountDeleted NoticeType = "account_deleted"
)

// NotificationData carries one notification's recipient and payload.
type NotificationData struct {
	To      string            // Recipient address
	Subject string            // Optional override of the template subject
	Body    string            // Optional pre-rendered body
	Data    map[string]string // Template data
}

// NoticeTemplate holds the subject and the text/HTML bodies of a notice.
// Bodies are Go text templates executed against NotificationData.Data.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// Notifier delivers a rendered notification over one channel.
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
