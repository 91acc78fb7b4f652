package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNotification(t *testing.T) {
	nm := NewNotificationManager()

	tests := []struct {
		name        string
		noticeType  NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:       "valid registration with both text and html",
			noticeType: AccountWelcome,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Welcome", Text: "Welcome", Html: "<p>Welcome</p>"},
		},
		{
			name:       "valid registration with text only",
			noticeType: AccountWelcome,
			system:     EmailSystem,
			template:   NoticeTemplate{Subject: "Welcome", Text: "Welcome"},
		},
		{
			name:        "empty notice type",
			noticeType:  "",
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Welcome", Text: "Welcome"},
			shouldError: true,
		},
		{
			name:        "empty system",
			noticeType:  AccountWelcome,
			system:      "",
			template:    NoticeTemplate{Subject: "Welcome", Text: "Welcome"},
			shouldError: true,
		},
		{
			name:        "template without any body",
			noticeType:  AccountWelcome,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Welcome"},
			shouldError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := nm.RegisterNotification(tc.noticeType, tc.system, tc.template)
			if tc.shouldError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSendDispatchesToRegisteredNotifier(t *testing.T) {
	nm := NewNotificationManager()
	mock := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, mock)
	require.NoError(t, nm.RegisterNotification(FeedbackReply, EmailSystem, NoticeTemplate{
		Subject: "Reply", Text: "Reply: {{.Reply}}",
	}))

	err := nm.Send(FeedbackReply, EmailSystem, NotificationData{
		To:   "a@x.com",
		Data: map[string]string{"Reply": "thanks"},
	})
	require.NoError(t, err)
	require.Len(t, mock.SentNotifications, 1)
	assert.Equal(t, "a@x.com", mock.SentNotifications[0].To)
}

func TestSendFailsWithoutRegistration(t *testing.T) {
	nm := NewNotificationManager()

	err := nm.Send(AccountWelcome, EmailSystem, NotificationData{To: "a@x.com"})
	assert.Error(t, err)

	require.NoError(t, nm.RegisterNotification(AccountWelcome, EmailSystem, NoticeTemplate{Subject: "w", Text: "w"}))
	err = nm.Send(AccountWelcome, EmailSystem, NotificationData{To: "a@x.com"})
	assert.Error(t, err) // still no notifier registered
}

func TestSendRetriesDeliveryFailures(t *testing.T) {
	nm, err := NewNotificationManagerWithOptions(
		WithRetryPolicy(2, time.Millisecond),
	)
	require.NoError(t, err)

	mock := &MockNotifier{Err: errors.New("smtp unavailable")}
	nm.RegisterNotifier(EmailSystem, mock)
	require.NoError(t, nm.RegisterNotification(AccountWelcome, EmailSystem, NoticeTemplate{Subject: "w", Text: "w"}))

	err = nm.Send(AccountWelcome, EmailSystem, NotificationData{To: "a@x.com"})
	assert.Error(t, err)
}

func TestDefaultTemplatesAreRegistered(t *testing.T) {
	nm, err := NewNotificationManagerWithOptions(WithDefaultTemplates())
	require.NoError(t, err)

	mock := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, mock)

	for _, noticeType := range []NoticeType{AccountWelcome, FeedbackReply, AccountDeleted} {
		err := nm.Send(noticeType, EmailSystem, NotificationData{
			To:   "a@x.com",
			Data: map[string]string{"FullName": "A", "Email": "a@x.com", "Reply": "r", "Content": "c"},
		})
		assert.NoError(t, err, string(noticeType))
	}
	assert.Len(t, mock.SentNotifications, 3)
}
