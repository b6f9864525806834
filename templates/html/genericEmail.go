package templates

import (
	"fmt"
	"html"
	"strings"
)

// RenderGenericEmail generates branded HTML for a studio email.
// bodyContent is plain text that gets HTML-escaped with newlines converted to <br> tags. When
// ctaURL is set a button linking to it is rendered under the body.
func RenderGenericEmail(subject, bodyContent, ctaText, ctaURL string) string {
	escaped := html.EscapeString(bodyContent)
	htmlBody := strings.ReplaceAll(escaped, "\n", "<br>")
	safeSubject := html.EscapeString(subject)

	button := ""
	if ctaURL != "" {
		button = fmt.Sprintf(`<p><a href="%s" class="cta-button">%s</a></p>`, html.EscapeString(ctaURL), html.EscapeString(ctaText))
	}

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0b0b10; }
    .container { max-width: 600px; margin: 0 auto; background-color: #15151d; }
    .header { background: linear-gradient(135deg, #ec4899 0%%, #8b5cf6 100%%); padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    .cta-button { display: inline-block; background: #ec4899; color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 700; margin-top: 20px; }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
      %s
    </div>
    <div class="footer">
      <p>You received this email because someone at your agency invited you to Studio.</p>
    </div>
  </div>
</body>
</html>`, safeSubject, safeSubject, htmlBody, button)
}
