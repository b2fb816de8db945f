// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"bytes"
	"html/template"
)

// emailData is the template context shared by all transactional emails.
type emailData struct {
	Username string
	Link     string
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to LinkBridge, {{.Username}}!</h2>
    <p>Please confirm your account by clicking the button below.</p>
    <p>
      <a href="{{.Link}}"
         style="display: inline-block; padding: 12px 24px; background: #222; color: #f8f8f8; border-radius: 9999px; text-decoration: none;">
        Confirm account
      </a>
    </p>
    <p>If the button does not work, copy this link into your browser:</p>
    <p><a href="{{.Link}}">{{.Link}}</a></p>
    <p>If you did not create this account, you can safely ignore this email.</p>
  </body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Hi {{.Username}},</h2>
    <p>We received a request to reset your LinkBridge password.</p>
    <p>
      <a href="{{.Link}}"
         style="display: inline-block; padding: 12px 24px; background: #222; color: #f8f8f8; border-radius: 9999px; text-decoration: none;">
        Reset password
      </a>
    </p>
    <p>If the button does not work, copy this link into your browser:</p>
    <p><a href="{{.Link}}">{{.Link}}</a></p>
    <p>This link expires once used. If you did not request a reset, you can ignore this email.</p>
  </body>
</html>`))

// renderTemplate executes a template into a string.
func renderTemplate(tmpl *template.Template, data emailData) (string, error) {
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, data); err != nil {
		return "", err
	}
	return buffer.String(), nil
}
