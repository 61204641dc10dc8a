package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/krana10454/todo-app/internal/config"
)

// EmailNotifier 通过 SMTP 发送纯文本邮件。
type EmailNotifier struct {
	cfg    *config.EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier 创建一个新的邮件通知器。
func NewEmailNotifier(cfg *config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

// Send 发送一封纯文本邮件。
//
// 连接在发送结束后始终被释放（DialAndSend 内部保证），发送失败
// 只返回错误，由调用方决定是否向用户暴露。
func (n *EmailNotifier) Send(toEmail, subject, body string) error {
	if n.cfg.SMTPHost == "" || n.cfg.SMTPUser == "" || n.cfg.FromEmail == "" {
		return fmt.Errorf("email config missing")
	}
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("email sent", slog.String("to", toEmail), slog.String("subject", subject))
	return nil
}

// SendTemporaryPassword 发送密码重置邮件，内含临时密码。
func (n *EmailNotifier) SendTemporaryPassword(toEmail, tempPassword string) error {
	subject := "Your Temporary Password"
	body := fmt.Sprintf(`Hello,

You have requested a password reset for your ToDo App account. Your temporary password is:

%s

Please log in using this password and consider changing it to a new, strong password in your account settings after logging in.

If you did not request this password reset, please ignore this email.

Thank you,
The ToDo App Team
`, tempPassword)

	return n.Send(toEmail, subject, body)
}
