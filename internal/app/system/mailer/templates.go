// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// WelcomeEmailData holds data for the admitted-student welcome email.
type WelcomeEmailData struct {
	SiteName        string
	FirstName       string
	AdmissionNumber string
	TempPassword    string
	LoginURL        string
}

// BuildWelcomeEmail creates the email sent after an offline admission.
func BuildWelcomeEmail(data WelcomeEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Welcome to %s", data.SiteName),
		TextBody: buildWelcomeText(data),
		HTMLBody: buildWelcomeHTML(data),
	}
}

func buildWelcomeText(data WelcomeEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.FirstName))
	buf.WriteString(fmt.Sprintf("Your admission to %s is complete.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Admission number: %s\n", data.AdmissionNumber))
	buf.WriteString(fmt.Sprintf("Temporary password: %s\n\n", data.TempPassword))
	buf.WriteString("Sign in and change your password here:\n")
	buf.WriteString(data.LoginURL + "\n")
	return buf.String()
}

func buildWelcomeHTML(data WelcomeEmailData) string {
	tmpl := template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// ApplicationReceivedData holds data for the application acknowledgement.
type ApplicationReceivedData struct {
	SiteName          string
	FirstName         string
	ApplicationNumber string
	CourseName        string
}

// BuildApplicationReceivedEmail acknowledges a submitted application.
func BuildApplicationReceivedEmail(data ApplicationReceivedData) Email {
	return Email{
		Subject:  fmt.Sprintf("We received your %s application", data.SiteName),
		TextBody: buildApplicationText(data),
		HTMLBody: buildApplicationHTML(data),
	}
}

func buildApplicationText(data ApplicationReceivedData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Hello %s,\n\n", data.FirstName))
	buf.WriteString(fmt.Sprintf("We received your application for %s.\n\n", data.CourseName))
	buf.WriteString(fmt.Sprintf("Your application number is %s. Keep it for reference; our admissions team will contact you.\n", data.ApplicationNumber))
	return buf.String()
}

func buildApplicationHTML(data ApplicationReceivedData) string {
	tmpl := template.Must(template.New("application").Parse(applicationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// GraduationEmailData holds data for the graduation congratulations email.
type GraduationEmailData struct {
	SiteName          string
	FirstName         string
	CourseName        string
	FinalGrade        string
	GPA               string
	CertificateSerial string
}

// BuildGraduationEmail congratulates a learner after graduation.
func BuildGraduationEmail(data GraduationEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Congratulations on completing %s", data.CourseName),
		TextBody: buildGraduationText(data),
		HTMLBody: buildGraduationHTML(data),
	}
}

func buildGraduationText(data GraduationEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Congratulations %s!\n\n", data.FirstName))
	buf.WriteString(fmt.Sprintf("You have completed %s with a final grade of %s (GPA %s).\n\n", data.CourseName, data.FinalGrade, data.GPA))
	buf.WriteString(fmt.Sprintf("Your certificate serial number is %s.\n\n", data.CertificateSerial))
	buf.WriteString(fmt.Sprintf("You are now part of the %s alumni community.\n", data.SiteName))
	return buf.String()
}

func buildGraduationHTML(data GraduationEmailData) string {
	tmpl := template.Must(template.New("graduation").Parse(graduationHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Welcome</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.FirstName}},</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">Your admission is complete. Use the details below to sign in.</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 20px; margin-bottom: 24px;">
                <p style="margin: 0 0 8px; font-size: 14px; color: #374151;">Admission number: <strong>{{.AdmissionNumber}}</strong></p>
                <p style="margin: 0; font-size: 14px; color: #374151;">Temporary password: <strong>{{.TempPassword}}</strong></p>
              </div>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 32px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 16px; border-radius: 6px;">Sign In</a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">Change your password after your first sign-in.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const applicationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Application Received</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.FirstName}},</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">We received your application for <strong>{{.CourseName}}</strong>.</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 20px; text-align: center; margin-bottom: 24px;">
                <span style="font-size: 20px; font-weight: 700; color: #1f2937;">{{.ApplicationNumber}}</span>
              </div>
              <p style="margin: 0; font-size: 14px; color: #6b7280; text-align: center;">Keep this number for reference. Our admissions team will contact you.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const graduationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Congratulations</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Congratulations {{.FirstName}}!</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">You have completed <strong>{{.CourseName}}</strong> with a final grade of <strong>{{.FinalGrade}}</strong> (GPA {{.GPA}}).</p>
              <div style="background-color: #f3f4f6; border-radius: 8px; padding: 20px; text-align: center; margin-bottom: 24px;">
                <p style="margin: 0 0 4px; font-size: 13px; color: #6b7280;">Certificate serial</p>
                <span style="font-size: 20px; font-weight: 700; color: #1f2937; font-family: 'Courier New', monospace;">{{.CertificateSerial}}</span>
              </div>
              <p style="margin: 0; font-size: 14px; color: #6b7280; text-align: center;">Welcome to the {{.SiteName}} alumni community.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
