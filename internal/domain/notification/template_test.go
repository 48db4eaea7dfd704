package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRender(t *testing.T) {
	tpl := Template{
		Subject: "Booking {{booking_code}} confirmed",
		Body:    "Hi {{guest_name}}, see you on {{check_in}}.",
	}

	subject, body := tpl.Render(map[string]string{
		"booking_code": "BK-0042",
		"guest_name":   "Kofi",
		"check_in":     "2026-03-01",
	})

	assert.Equal(t, "Booking BK-0042 confirmed", subject)
	assert.Equal(t, "Hi Kofi, see you on 2026-03-01.", body)
}

func TestTemplateRenderUnknownPlaceholder(t *testing.T) {
	tpl := Template{Body: "Hello {{name}}, your code is {{missing}}."}

	_, body := tpl.Render(map[string]string{"name": "Ama"})
	assert.Equal(t, "Hello Ama, your code is {{missing}}.", body, "unknown placeholders stay visible")
}

func TestTemplateRenderWhitespaceInBraces(t *testing.T) {
	tpl := Template{Body: "Net due: {{ net_amount }}"}

	_, body := tpl.Render(map[string]string{"net_amount": "USD 1,075.00"})
	assert.Equal(t, "Net due: USD 1,075.00", body)
}

func TestTemplateKey(t *testing.T) {
	assert.Equal(t, "notification.template.booking.confirmed.sms", TemplateKey(EventBookingConfirmed, ChannelSMS))
}

func TestDefaultTemplatesCoverTestEvent(t *testing.T) {
	for _, ch := range []Channel{ChannelEmail, ChannelSMS, ChannelWhatsApp} {
		_, ok := DefaultTemplate(EventTest, ch)
		require.True(t, ok, "test event needs a default template on %s", ch)
	}
}

func TestNotificationRow(t *testing.T) {
	to := Recipient{Name: "Ama", Email: "ama@example.com"}
	n, err := NewNotification(EventBookingConfirmed, ChannelEmail, to, to.Email, "subject", "body")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, n.Status)

	n.MarkSent()
	assert.Equal(t, StatusSent, n.Status)
	require.NotNil(t, n.SentAt)

	m, err := NewNotification(EventBookingConfirmed, ChannelSMS, Recipient{Name: "Ama"}, "", "", "body")
	require.NoError(t, err)
	m.MarkFailed("no phone number on file")
	assert.Equal(t, StatusFailed, m.Status)
	assert.Equal(t, "no phone number on file", m.Error)
}
