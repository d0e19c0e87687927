package utils

import (
	"MediBook/config"
	"fmt"

	"gopkg.in/gomail.v2"
)

// sendEmail delivers one message through the configured SMTP server.
func sendEmail(to, subject, plainBody, htmlBody string) error {
	smtp, err := config.LoadSMTPConfig()
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtp.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	return d.DialAndSend(m)
}

// SendResetCodeEmail sends a password reset code to the user's email.
func SendResetCodeEmail(email, code string) error {
	htmlBody := `
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 20px auto; padding: 20px;">
		<h1>Password Reset Code</h1>
		<p>Your password reset code is:</p>
		<p style="font-weight: bold; color: #007bff;">` + code + `</p>
		<p>If you did not request a password reset, please ignore this email.</p>
	</div>
	`
	return sendEmail(email, "Password Reset Code",
		"Your password reset code is: "+code, htmlBody)
}

// SendBookingEmail notifies a patient or doctor about a newly booked
// appointment.
func SendBookingEmail(email, name, counterpart, date, slot string) error {
	plain := fmt.Sprintf("Dear %s,\n\nAn appointment with %s has been booked for %s at %s. It is pending confirmation.\n\nMediBook",
		name, counterpart, date, slot)
	htmlBody := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 20px auto; padding: 20px;">
		<h1>Appointment Booked</h1>
		<p>Dear %s,</p>
		<p>An appointment with <strong>%s</strong> has been booked for
		<strong>%s</strong> at <strong>%s</strong>. It is pending confirmation.</p>
	</div>
	`, name, counterpart, date, slot)
	return sendEmail(email, "Appointment Booked", plain, htmlBody)
}

// SendStatusChangeEmail notifies a patient that an appointment changed status.
func SendStatusChangeEmail(email, name, date, slot, newStatus string) error {
	plain := fmt.Sprintf("Dear %s,\n\nYour appointment on %s at %s is now %s.\n\nMediBook",
		name, date, slot, newStatus)
	htmlBody := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 20px auto; padding: 20px;">
		<h1>Appointment Update</h1>
		<p>Dear %s,</p>
		<p>Your appointment on <strong>%s</strong> at <strong>%s</strong> is now
		<strong>%s</strong>.</p>
	</div>
	`, name, date, slot, newStatus)
	return sendEmail(email, "Appointment Update", plain, htmlBody)
}
