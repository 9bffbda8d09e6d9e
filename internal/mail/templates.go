package mail

import (
	"fmt"
	"html"
	"strings"
	"time"

	"pathcrm/internal/crm/models"
)

const brandName = "Service Path Technologies"

// BuildContactNotification renders the internal alert for a new contact-form
// submission, addressed to the ops inbox.
func BuildContactNotification(c *models.Contact, to string) Message {
	textLines := []string{
		"Name: " + c.FullName,
		"Email: " + c.Email,
	}
	if c.Phone != "" {
		textLines = append(textLines, "Phone: "+c.Phone)
	}
	if c.Company != "" {
		textLines = append(textLines, "Company: "+c.Company)
	}
	textLines = append(textLines, "", "Message:", c.Message)

	rows := []string{
		row("Name", c.FullName),
		row("Email", c.Email),
		optionalRow("Phone", c.Phone),
		optionalRow("Company", c.Company),
	}
	body := cardHTML("New Contact Form Submission", rows, "Message", c.Message)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("New contact: %s (%s)", c.FullName, c.Email),
		Text:    strings.Join(textLines, "\n"),
		HTML:    body,
	}
}

// BuildDemoNotification renders the internal alert for a new demo booking.
func BuildDemoNotification(d *models.Demo, to string) Message {
	dateStr := d.DemoDate.Format(time.RFC1123)

	textLines := []string{
		"Name: " + d.FullName,
		"Email: " + d.Email,
	}
	if d.Company != "" {
		textLines = append(textLines, "Company: "+d.Company)
	}
	textLines = append(textLines, "Demo date: "+dateStr)
	if d.Service != "" {
		textLines = append(textLines, "Service: "+d.Service)
	}
	if d.Notes != "" {
		textLines = append(textLines, "Notes: "+d.Notes)
	}

	rows := []string{
		row("Name", d.FullName),
		row("Email", d.Email),
		optionalRow("Company", d.Company),
		row("Demo date", dateStr),
		optionalRow("Service", d.Service),
	}
	body := cardHTML("New Demo Booking", rows, "Notes", d.Notes)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Booked a demo: %s — %s", d.FullName, dateStr),
		Text:    strings.Join(textLines, "\n"),
		HTML:    body,
	}
}

// BuildThankYou renders the client-facing email sent when a contact is first
// marked Contacted.
func BuildThankYou(fullName, to string) Message {
	name := fullName
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"Hello %s,\n\nThank you for your response. Our team will contact you soon.\n\nBest regards,\n%s",
		name, brandName,
	)
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;font-family:sans-serif;background:#f1f5f9;padding:24px;">
  <div style="max-width:560px;margin:0 auto;background:#fff;border-radius:12px;padding:24px;">
    <h1 style="margin:0 0 16px;font-size:20px;color:#0f172a;">Thank you for contacting us</h1>
    <p style="margin:0;line-height:1.6;color:#475569;">Hello %s,</p>
    <p style="margin:16px 0 0;line-height:1.6;color:#475569;">Thank you for your response. Our team will contact you soon.</p>
    <p style="margin:24px 0 0;color:#64748b;font-size:14px;">Best regards,<br/>%s</p>
  </div>
</body>
</html>`, html.EscapeString(name), brandName)

	return Message{
		To:      to,
		Subject: "Thank you for contacting us",
		Text:    text,
		HTML:    htmlBody,
	}
}

func row(label, value string) string {
	return fmt.Sprintf(
		`<tr><td style="padding:8px 0;color:#64748b;width:120px;">%s</td><td style="padding:8px 0;">%s</td></tr>`,
		label, html.EscapeString(value),
	)
}

func optionalRow(label, value string) string {
	if value == "" {
		return ""
	}
	return row(label, value)
}

func cardHTML(title string, rows []string, freeLabel, freeText string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;font-family:sans-serif;background:#f1f5f9;padding:24px;">
  <div style="max-width:560px;margin:0 auto;background:#fff;border-radius:12px;overflow:hidden;">
    <div style="background:#0A0A0F;color:#fff;padding:20px 24px;">
      <h1 style="margin:0;font-size:20px;font-weight:600;">` + html.EscapeString(title) + `</h1>
      <p style="margin:8px 0 0;font-size:14px;color:#94A3B8;">` + brandName + `</p>
    </div>
    <div style="padding:24px;">
      <table style="width:100%;border-collapse:collapse;">`)
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString(`</table>`)
	if freeText != "" {
		b.WriteString(fmt.Sprintf(
			`<div style="margin-top:20px;padding-top:20px;border-top:1px solid #e2e8f0;"><p style="margin:0 0 8px;color:#64748b;font-size:14px;">%s</p><p style="margin:0;white-space:pre-wrap;line-height:1.6;">%s</p></div>`,
			freeLabel, html.EscapeString(freeText),
		))
	}
	b.WriteString(`</div>
  </div>
</body>
</html>`)
	return b.String()
}
