package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"counselhub/internal/config"
	"counselhub/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #dc2626; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SMTPFromName), content, html.EscapeString(t.cfg.SMTPFromName), t.cfg.BaseURL, t.cfg.BaseURL)
}

// CrisisDetected generates the alert sent to on-call staff when a session is
// flagged for crisis language. The transcript itself is never included; staff
// review it in the admin dashboard.
func (t *Templates) CrisisDetected(session *models.Session, keywords []string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Crisis language detected in a counseling session", t.cfg.SMTPFromName)

	keywordList := strings.Join(keywords, ", ")
	detectedAt := time.Now().UTC().Format(time.RFC3339)

	content := fmt.Sprintf(`
        <p>A counseling session was flagged for crisis language and needs review.</p>

        <div class="info-box">
            <p><span class="label">Session:</span> <code>%s</code></p>
            <p><span class="label">Category:</span> %s</p>
            <p><span class="label">Mode:</span> %s</p>
            <p><span class="label">Matched keywords:</span> <span class="error">%s</span></p>
            <p><span class="label">Detected at:</span> %s</p>
        </div>

        <p>Please follow the crisis response protocol and review the session in the admin dashboard.</p>
    `,
		html.EscapeString(session.ID.String()),
		html.EscapeString(session.CounselorCategory),
		html.EscapeString(session.Mode),
		html.EscapeString(keywordList),
		detectedAt,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Crisis language detected in a counseling session

Session: %s
Category: %s
Mode: %s
Matched keywords: %s
Detected at: %s

Please follow the crisis response protocol and review the session in the admin dashboard.

--
%s
%s`,
		session.ID,
		session.CounselorCategory,
		session.Mode,
		keywordList,
		detectedAt,
		t.cfg.SMTPFromName,
		t.cfg.BaseURL,
	)

	return
}
