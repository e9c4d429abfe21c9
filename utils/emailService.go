package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"learnhub/config"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email. When SENDGRID_API_KEY is configured the
// SendGrid API is used, otherwise plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	from := cfg.EmailSender
	password := cfg.EmailPassword

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learning Hub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, cfg.SMTPHost)

	err := smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email via SMTP: %v", err)
		return err
	}
	return nil
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("Learning Hub", config.AppConfig.EmailSender)
	for _, rcpt := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", rcpt), "", htmlBody)
		client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("Error sending email via SendGrid: %v", err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email: %d %s", resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid rejected email, code: %d", resp.StatusCode)
		}
	}
	return nil
}

// getEmailTemplate wraps body content into the standard mail layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3D7DD8; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3D7DD8; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNING HUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learning Hub. All rights reserved.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendVerificationEmail sends the email-verification link to a new user
func SendVerificationEmail(email, verificationLink string) error {
	body := fmt.Sprintf(`
		<p>Welcome to Learning Hub! Please verify your email address to activate your account.</p>
		<a class="btn" href="%s">Verify Email</a>
		<p>This link expires in 10 minutes.</p>`, verificationLink)
	return SendEmail([]string{email}, "Verify your email address", getEmailTemplate("Verify Your Email", body))
}

// SendPasswordResetEmail sends the password reset link
func SendPasswordResetEmail(email, resetLink string) error {
	body := fmt.Sprintf(`
		<p>We received a request to reset your password. Click the button below to choose a new one.</p>
		<a class="btn" href="%s">Reset Password</a>
		<p>If you did not request this, you can safely ignore this email. The link expires in 10 minutes.</p>`, resetLink)
	return SendEmail([]string{email}, "Reset your password", getEmailTemplate("Reset Your Password", body))
}

// SendEnrollmentEmail confirms a successful enrollment
func SendEnrollmentEmail(email, courseTitle string) error {
	body := fmt.Sprintf(`
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Head to your dashboard to start learning right away.</div>`, courseTitle)
	return SendEmail([]string{email}, "Enrollment confirmed: "+courseTitle, getEmailTemplate("Enrollment Confirmed", body))
}

// SendWeeklyDigestEmail sends the weekly progress summary
func SendWeeklyDigestEmail(email string, lines []string) error {
	var sb strings.Builder
	sb.WriteString("<p>Here is your learning progress for the week:</p><ul>")
	for _, line := range lines {
		sb.WriteString("<li>" + line + "</li>")
	}
	sb.WriteString("</ul>")
	return SendEmail([]string{email}, "Your weekly learning digest", getEmailTemplate("Weekly Digest", sb.String()))
}
