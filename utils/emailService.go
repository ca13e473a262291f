package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email via SendGrid when an API key is
// configured, falling back to plain SMTP, and finally to the console
// so development never blocks on mail delivery.
func SendEmail(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig

	if cfg.SendGridAPIKey != "" {
		from := mail.NewEmail("Infinito Capacitaciones", cfg.EmailSender)
		client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
		for _, rcpt := range to {
			message := mail.NewSingleEmail(from, subject, mail.NewEmail("", rcpt), "", htmlBody)
			resp, err := client.Send(message)
			if err != nil {
				log.Printf("[EMAIL] SendGrid error: %v", err)
				return err
			}
			if resp.StatusCode >= 400 {
				log.Printf("[EMAIL] SendGrid status %d: %s", resp.StatusCode, resp.Body)
				return fmt.Errorf("sendgrid status %d", resp.StatusCode)
			}
		}
		return nil
	}

	if cfg.EmailPassword != "" {
		return sendSMTP(to, subject, htmlBody)
	}

	// No transport configured: log instead of failing the caller.
	log.Printf("[EMAIL] (console) To: %v Subject: %s\n%s", to, subject, htmlBody)
	return nil
}

func sendSMTP(to []string, subject string, htmlBody string) error {
	cfg := config.AppConfig
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Infinito Capacitaciones <%s>\r\n", cfg.EmailSender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", cfg.EmailSender, cfg.EmailPassword, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, cfg.EmailSender, to, []byte(msg)); err != nil {
		log.Printf("[EMAIL] SMTP error: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B1B3A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B1B3A; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Infinito Capacitaciones</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">Infinito Capacitaciones — este correo fue enviado automáticamente.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendActivationEmail sends the account confirmation link.
func SendActivationEmail(to, name, activationURL string) error {
	body := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Gracias por registrarte en Infinito Capacitaciones.
		Para activar tu cuenta hacé clic en el siguiente enlace:</p>
		<p><a class="btn" href="%s">Activar mi cuenta</a></p>
		<p>Si no te registraste vos, ignorá este correo.</p>`, name, activationURL)
	return SendEmail([]string{to}, "Confirmá tu cuenta", getEmailTemplate("Confirmá tu cuenta", body))
}

// SendPurchaseConfirmation notifies the user that their payment was
// received and access granted.
func SendPurchaseConfirmation(to, name string, purchaseID uint, totalARS float64) error {
	body := fmt.Sprintf(`
		<p>Hola %s,</p>
		<p>Recibimos el pago de tu pedido #%d por $%.2f ARS.</p>
		<p>Ya tenés acceso a tu curso. ¡Buen estudio!</p>`, name, purchaseID, totalARS)
	subject := fmt.Sprintf("Pago confirmado — pedido #%d", purchaseID)
	return SendEmail([]string{to}, subject, getEmailTemplate("Pago confirmado", body))
}
