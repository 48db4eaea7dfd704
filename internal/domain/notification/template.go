package notification

import (
	"regexp"
	"strings"
)

// Template is a stored message template. Placeholders use the
// {{name}} form and are replaced verbatim from the data map.
type Template struct {
	Subject string
	Body    string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Render substitutes placeholders in both subject and body.
// Unknown placeholders are left in place so a half-filled template is
// visible instead of silently blanked.
func (t Template) Render(data map[string]string) (subject, body string) {
	return renderString(t.Subject, data), renderString(t.Body, data)
}

func renderString(s string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		key := strings.TrimSpace(strings.Trim(match, "{}"))
		if v, ok := data[key]; ok {
			return v
		}
		return match
	})
}

// TemplateKey builds the settings key a template is stored under
func TemplateKey(event EventKind, channel Channel) string {
	return "notification.template." + string(event) + "." + strings.ToLower(string(channel))
}

// DefaultTemplates are used when no stored template overrides them
var DefaultTemplates = map[string]Template{
	TemplateKey(EventBookingCreated, ChannelEmail): {
		Subject: "New booking {{booking_code}} at {{property_name}}",
		Body:    "A new booking {{booking_code}} for {{property_name}} was created for {{guest_name}}, {{check_in}} to {{check_out}}.",
	},
	TemplateKey(EventBookingConfirmed, ChannelEmail): {
		Subject: "Booking {{booking_code}} confirmed",
		Body:    "Booking {{booking_code}} at {{property_name}} is confirmed for {{guest_name}}, arriving {{check_in}}.",
	},
	TemplateKey(EventBookingConfirmed, ChannelSMS): {
		Body: "Booking {{booking_code}} at {{property_name}} confirmed for {{check_in}}.",
	},
	TemplateKey(EventBookingConfirmed, ChannelWhatsApp): {
		Body: "Booking {{booking_code}} at {{property_name}} confirmed for {{check_in}}.",
	},
	TemplateKey(EventBookingCancelled, ChannelEmail): {
		Subject: "Booking {{booking_code}} cancelled",
		Body:    "Booking {{booking_code}} at {{property_name}} was cancelled. Reason: {{reason}}",
	},
	TemplateKey(EventIssueReported, ChannelEmail): {
		Subject: "[{{severity}}] Issue at {{property_name}}: {{title}}",
		Body:    "{{reported_by}} reported: {{title}}\n\n{{description}}",
	},
	TemplateKey(EventIssueReported, ChannelSMS): {
		Body: "[{{severity}}] {{property_name}}: {{title}}",
	},
	TemplateKey(EventStatementSent, ChannelEmail): {
		Subject: "Your statement {{statement_code}}",
		Body:    "Dear {{owner_name}},\n\nYour statement for {{period}} is ready. Net amount due: {{net_amount}}.",
	},
	TemplateKey(EventPayoutPaid, ChannelEmail): {
		Subject: "Payout of {{amount}} sent",
		Body:    "Dear {{owner_name}},\n\nA payout of {{amount}} was sent via {{method}}. Reference: {{reference}}.",
	},
	TemplateKey(EventPayoutPaid, ChannelSMS): {
		Body: "Payout of {{amount}} sent via {{method}}. Ref {{reference}}.",
	},
	TemplateKey(EventTest, ChannelEmail): {
		Subject: "Test notification",
		Body:    "This is a test notification for {{name}}.",
	},
	TemplateKey(EventTest, ChannelSMS): {
		Body: "Test notification for {{name}}.",
	},
	TemplateKey(EventTest, ChannelWhatsApp): {
		Body: "Test notification for {{name}}.",
	},
}

// DefaultTemplate looks up the built-in template for an event/channel
// pair. The bool is false when none exists.
func DefaultTemplate(event EventKind, channel Channel) (Template, bool) {
	t, ok := DefaultTemplates[TemplateKey(event, channel)]
	return t, ok
}
