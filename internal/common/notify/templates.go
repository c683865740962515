package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReminderCopy is the per-template wording of a call reminder.
type ReminderCopy struct {
	Subject string
	Heading string
	Message string
	CTA     string
}

var reminderCopy = map[int]ReminderCopy{
	1: {
		Subject: "Ready to find your match?",
		Heading: "Still Thinking About It?",
		Message: "We noticed you haven't booked your discovery call yet. This quick 15-minute chat is the first step toward finding a truly compatible partner.",
		CTA:     "Book Your Free Call",
	},
	2: {
		Subject: "Your perfect match could be waiting",
		Heading: "Don't Miss Your Chance",
		Message: "Finding the right partner shouldn't be left to chance. Our science-backed approach has helped countless singles find lasting love. Let's talk about what you're looking for.",
		CTA:     "Schedule Now",
	},
	3: {
		Subject: "Last chance: Let's find your match",
		Heading: "We're Still Here For You",
		Message: "Life gets busy, we understand. But if finding a meaningful relationship is still on your mind, we'd love to help. This is our final reminder \u2014 take the first step today.",
		CTA:     "Book Your Call",
	},
}

// ReminderTemplate returns the copy for template n (1..3).
func ReminderTemplate(n int) (ReminderCopy, bool) {
	c, ok := reminderCopy[n]
	return c, ok
}

const WaitlistSubject = "You're on the AILO Waitlist"

const layout = `<!DOCTYPE html>
<html>
  <head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
  <body style="margin:0;padding:0;background-color:#1a2328;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
    <div style="max-width:600px;margin:0 auto;padding:40px 20px;">
      <div style="background-color:#2d3a40;border-radius:16px;padding:40px;border:1px solid rgba(255,255,255,0.1);">
        <h1 style="color:#e1b98f;font-size:28px;margin:0 0 24px 0;font-weight:600;">{{.Heading}}</h1>
        {{template "content" .}}
        <p style="color:rgba(235,235,235,0.5);font-size:13px;margin:24px 0 0 0;">{{.SignOff}}<br><span style="color:#e1b98f;">The AILO Team</span></p>
      </div>
      <p style="color:rgba(235,235,235,0.3);font-size:12px;text-align:center;margin-top:24px;">AILO - Where Science Meets the Heart</p>
    </div>
  </body>
</html>`

const reminderContent = `{{define "content"}}
        <p style="color:#ebebeb;font-size:16px;line-height:1.6;margin:0 0 20px 0;">Hi {{.Name}},</p>
        <p style="color:rgba(235,235,235,0.8);font-size:16px;line-height:1.6;margin:0 0 24px 0;">{{.Message}}</p>
        <div style="text-align:center;margin:32px 0;">
          <a href="{{.BookingURL}}" style="display:inline-block;background-color:#e1b98f;color:#1a2328;text-decoration:none;padding:14px 32px;border-radius:8px;font-weight:600;font-size:16px;">{{.CTA}}</a>
        </div>
        <div style="background-color:rgba(225,185,143,0.1);border-radius:8px;padding:20px;margin:24px 0;">
          <p style="color:#e1b98f;font-size:14px;font-weight:600;margin:0 0 8px 0;">Why AILO?</p>
          <ul style="color:rgba(235,235,235,0.8);font-size:14px;line-height:1.8;margin:0;padding-left:20px;">
            <li>30+ years of compatibility research</li>
            <li>Only 70%+ compatibility matches</li>
            <li>Personalized matchmaking, not algorithms</li>
          </ul>
        </div>
{{end}}`

const waitlistContent = `{{define "content"}}
        <p style="color:#ebebeb;font-size:16px;line-height:1.6;margin:0 0 20px 0;">Thanks for your interest in AILO. We've added you to our waitlist{{if .City}} for {{.City}}{{end}} and will notify you as soon as we're ready to accept new members in your area.</p>
        <p style="color:rgba(235,235,235,0.7);font-size:14px;line-height:1.6;margin:0 0 20px 0;">AILO is currently focused on couples-only matchmaking, where both partners meet our high compatibility standards. We're expanding thoughtfully to ensure every match has the best chance of success.</p>
        <div style="background-color:rgba(225,185,143,0.1);border-radius:8px;padding:20px;margin:24px 0;">
          <p style="color:#e1b98f;font-size:14px;font-weight:600;margin:0 0 8px 0;">What happens next?</p>
          <ul style="color:rgba(235,235,235,0.8);font-size:14px;line-height:1.8;margin:0;padding-left:20px;">
            <li>We'll email you when we expand to your area</li>
            <li>Priority access for waitlist members</li>
            <li>No spam, just important updates</li>
          </ul>
        </div>
{{end}}`

var (
	reminderTmpl = template.Must(template.Must(template.New("reminder").Parse(layout)).Parse(reminderContent))
	waitlistTmpl = template.Must(template.Must(template.New("waitlist").Parse(layout)).Parse(waitlistContent))
)

type reminderData struct {
	ReminderCopy
	Name       string
	BookingURL string
	SignOff    string
}

type waitlistData struct {
	Heading string
	City    string
	SignOff string
}

// RenderReminder renders template n for the given recipient name.
func RenderReminder(n int, name, bookingURL string) (subject, html string, err error) {
	c, ok := ReminderTemplate(n)
	if !ok {
		return "", "", fmt.Errorf("%w: %d", ErrUnknownTemplate, n)
	}

	var buf bytes.Buffer
	err = reminderTmpl.Execute(&buf, reminderData{
		ReminderCopy: c,
		Name:         name,
		BookingURL:   bookingURL,
		SignOff:      "Looking forward to meeting you,",
	})
	if err != nil {
		return "", "", fmt.Errorf("render reminder %d: %w", n, err)
	}
	return c.Subject, buf.String(), nil
}

// RenderWaitlist renders the waitlist confirmation. An empty city omits the
// "for <city>" clause.
func RenderWaitlist(city string) (subject, html string, err error) {
	var buf bytes.Buffer
	err = waitlistTmpl.Execute(&buf, waitlistData{
		Heading: "You're on the List!",
		City:    city,
		SignOff: "Thank you for your patience,",
	})
	if err != nil {
		return "", "", fmt.Errorf("render waitlist: %w", err)
	}
	return WaitlistSubject, buf.String(), nil
}
