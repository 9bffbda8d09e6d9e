package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pathcrm/internal/crm/models"
)

func TestBuildContactNotification(t *testing.T) {
	c := &models.Contact{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Company:  "Navy",
		Message:  "Tell me more <script>alert(1)</script>",
	}

	msg := BuildContactNotification(c, "ops@example.com")

	assert.Equal(t, "ops@example.com", msg.To)
	assert.Equal(t, "New contact: Grace Hopper (grace@example.com)", msg.Subject)
	assert.Contains(t, msg.Text, "Message:\nTell me more")
	assert.NotContains(t, msg.Text, "Phone:")
	assert.Contains(t, msg.HTML, "Navy")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestBuildDemoNotification(t *testing.T) {
	d := &models.Demo{
		FullName: "Alan Kay",
		Email:    "alan@example.com",
		DemoDate: time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC),
		Notes:    "Prefers afternoon slots",
	}

	msg := BuildDemoNotification(d, "ops@example.com")

	assert.Contains(t, msg.Subject, "Booked a demo: Alan Kay")
	assert.Contains(t, msg.Text, "Demo date:")
	assert.NotContains(t, msg.Text, "Company:")
	assert.Contains(t, msg.HTML, "Prefers afternoon slots")
}

func TestBuildThankYou(t *testing.T) {
	msg := BuildThankYou("Grace Hopper", "grace@example.com")
	assert.Equal(t, "Thank you for contacting us", msg.Subject)
	assert.Contains(t, msg.Text, "Hello Grace Hopper,")
	assert.Contains(t, msg.Text, "Our team will contact you soon.")

	anon := BuildThankYou("", "someone@example.com")
	assert.Contains(t, anon.Text, "Hello there,")
}
