package service

import (
	"context"

	"Doubts_Clearance/internal/pkg"
)

// EmailNotifier delivers approval notifications over SMTP.
type EmailNotifier struct {
	cfg pkg.SMTPConfig
}

func NewEmailNotifier(cfg pkg.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) ReplyApproved(ctx context.Context, to, doubtTitle string) error {
	return pkg.SendEmail(n.cfg, to, "Your reply was approved", pkg.ApprovalHTML(doubtTitle))
}
