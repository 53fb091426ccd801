package email

import (
	"log"
	"strings"

	"counselhub/internal/config"
	"counselhub/internal/models"
)

// Notifier sends email notifications for platform events.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
	}
}

// crisisRecipients parses the configured on-call recipient list.
func (n *Notifier) crisisRecipients() []string {
	var emails []string
	for _, addr := range strings.Split(n.cfg.CrisisAlertEmails, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			emails = append(emails, addr)
		}
	}
	return emails
}

// NotifyCrisisDetected alerts on-call staff that a session was flagged for
// crisis language. Safe to call from a goroutine; failures are logged, never
// surfaced to the student.
func (n *Notifier) NotifyCrisisDetected(session *models.Session, keywords []string) {
	if !n.service.IsEnabled() {
		return
	}

	emails := n.crisisRecipients()
	if len(emails) == 0 {
		log.Println("No crisis alert recipients configured")
		return
	}

	subject, htmlBody, textBody := n.templates.CrisisDetected(session, keywords)
	if err := n.service.SendEmail(emails, subject, htmlBody, textBody); err != nil {
		log.Printf("Failed to send crisis alert for session %s: %v", session.ID, err)
	} else {
		log.Printf("Crisis alert sent for session %s", session.ID)
	}
}
