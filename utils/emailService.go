package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"peerlearn/config"
)

// sendEmail delivers one HTML mail through SendGrid. A missing API key
// disables mail quietly; callers treat delivery as best-effort.
func sendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Printf("Mail disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("PeerLearn", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("SendGrid rejected mail to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid responded %d", resp.StatusCode)
	}
	return nil
}

// SendOTPEmail mails the email verification code.
func SendOTPEmail(name, email, otp string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">PeerLearn Email Verification</h2>
					<p style="font-size: 16px; color: #555555; text-align: center;">Your One Time Password (OTP) is:</p>
					<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
					<p style="font-size: 14px; color: #999999; text-align: center;">Do not share this OTP with anyone. It expires in 10 minutes.</p>
				</div>
			</body>
		</html>
	`, otp)

	return sendEmail(name, email, "PeerLearn Verification Code", body)
}

// SendCertificateEmail notifies the student that a certificate was issued.
func SendCertificateEmail(name, email, courseTitle, certificateNumber string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Congratulations, %s!</h2>
					<p style="font-size: 16px; color: #555555;">You completed <b>%s</b> and earned a certificate.</p>
					<p style="font-size: 16px; color: #555555;">Certificate number: <b>%s</b></p>
					<p style="font-size: 14px; color: #999999;">Keep learning — your next level is closer than you think.</p>
				</div>
			</body>
		</html>
	`, name, courseTitle, certificateNumber)

	return sendEmail(name, email, "Your PeerLearn Certificate", body)
}

// SendMentorRequestEmail notifies the student about a mentor request decision.
func SendMentorRequestEmail(name, email, status string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">Mentor Application Update</h2>
					<p style="font-size: 16px; color: #555555;">Hi %s, your mentor application was <b>%s</b>.</p>
				</div>
			</body>
		</html>
	`, name, status)

	return sendEmail(name, email, "PeerLearn Mentor Application", body)
}
