// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// StatusChangeData holds data for the status-change email templates.
type StatusChangeData struct {
	BrdID   string
	BrdName string
	FormID  string
	Status  string
}

// BuildStatusChangeEmail creates a status-change email with both HTML and
// text bodies.
func BuildStatusChangeEmail(data StatusChangeData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("BRD %s is now %s", data.BrdID, data.Status),
		TextBody: buildStatusChangeText(data),
		HTMLBody: buildStatusChangeHTML(data),
	}
}

func buildStatusChangeText(data StatusChangeData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("The BRD %q (%s) you are responsible for has moved to status %s.\n\n", data.BrdName, data.BrdID, data.Status))
	buf.WriteString(fmt.Sprintf("Form reference: %s\n\n", data.FormID))
	buf.WriteString("Sign in to review the document and its latest comments.\n")
	return buf.String()
}

func buildStatusChangeHTML(data StatusChangeData) string {
	tmpl := template.Must(template.New("statuschange").Parse(statusChangeHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// WelcomeData holds data for the welcome email sent on first assignment.
type WelcomeData struct {
	BrdID   string
	BrdName string
	FormID  string
}

// BuildWelcomeEmail creates the first-assignment welcome email.
func BuildWelcomeEmail(data WelcomeData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("You have been assigned BRD %s", data.BrdID),
		TextBody: buildWelcomeText(data),
		HTMLBody: buildWelcomeHTML(data),
	}
}

func buildWelcomeText(data WelcomeData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("You are now the responsible party for BRD %q (%s).\n\n", data.BrdName, data.BrdID))
	buf.WriteString(fmt.Sprintf("Form reference: %s\n\n", data.FormID))
	buf.WriteString("Sign in to review the requirements document and begin onboarding.\n")
	return buf.String()
}

func buildWelcomeHTML(data WelcomeData) string {
	tmpl := template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const statusChangeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>BRD Status Change</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">BRD Hub</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                The BRD <strong>{{.BrdName}}</strong> ({{.BrdID}}) has moved to:
              </p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 24px; font-weight: 700; color: #1f2937;">{{.Status}}</span>
              </div>
              <p style="margin: 0; font-size: 13px; color: #9ca3af; text-align: center;">
                Form reference: {{.FormID}}
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                You are receiving this because you are the responsible party for this BRD.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>BRD Assignment</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #4f46e5;">BRD Hub</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                You are now the responsible party for:
              </p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 24px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 20px; font-weight: 700; color: #1f2937;">{{.BrdName}}</span><br>
                <span style="font-size: 14px; color: #6b7280;">{{.BrdID}}</span>
              </div>
              <p style="margin: 0; font-size: 13px; color: #9ca3af; text-align: center;">
                Form reference: {{.FormID}}
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                Sign in to review the requirements document and begin onboarding.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
