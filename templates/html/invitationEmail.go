package templates

import (
	"fmt"
	"time"
)

// InvitationEmail is a rendered onboarding invitation
type InvitationEmail struct {
	Subject   string
	PlainText string
	HTML      string
}

// RenderInvitationEmail renders the email sent with a new onboarding link
func RenderInvitationEmail(label, link string, expiresAt time.Time) InvitationEmail {
	subject := "You're invited to set up your creator profile"
	greeting := "Hi"
	if label != "" {
		greeting = "Hi " + label
	}
	body := fmt.Sprintf("%s,\n\nYour agency invited you to fill in your creator profile on Studio.\nThe link below expires on %s UTC.",
		greeting, expiresAt.UTC().Format("Jan 2, 2006 15:04"))
	return InvitationEmail{
		Subject:   subject,
		PlainText: body + "\n\n" + link,
		HTML:      RenderGenericEmail(subject, body, "Set up my profile", link),
	}
}
