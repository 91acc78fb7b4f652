package notification

// MockNotifier records notifications instead of delivering them. Used in tests.
type MockNotifier struct {
	SentNotifications []NotificationData
	// Err, when set, is returned by Send to simulate delivery failures
	Err error
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	if m.Err != nil {
		return m.Err
	}
	m.SentNotifications = append(m.SentNotifications, notification)
	return nil
}
