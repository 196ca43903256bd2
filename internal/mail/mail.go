package mail

import (
	"context"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// PurchaseNotification describes a purchase worth telling the registry
// owners about.
type PurchaseNotification struct {
	UserName  string  `json:"userName"`
	UserEmail string  `json:"userEmail"`
	GiftName  string  `json:"giftName"`
	GiftPrice float64 `json:"giftPrice"`
	OrderID   string  `json:"orderId"`
}

// Mailer sends purchase notifications through SendGrid to a fixed recipient.
type Mailer struct {
	client    *sendgrid.Client
	sender    string
	recipient string
}

func NewMailer(apiKey, sender, recipient string) *Mailer {
	return &Mailer{
		client:    sendgrid.NewSendClient(apiKey),
		sender:    sender,
		recipient: recipient,
	}
}

func (m *Mailer) SendPurchaseNotification(ctx context.Context, n PurchaseNotification) error {
	subject := fmt.Sprintf("Gift Registry - Purchase Confirmed! #%s", n.OrderID)
	plain := fmt.Sprintf(
		"The gift %s was purchased by %s (%s).",
		n.GiftName, n.UserName, n.UserEmail,
	)

	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail("Gift Registry", m.sender),
		subject,
		sgmail.NewEmail("", m.recipient),
		plain,
		buildHTML(n),
	)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail: sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func buildHTML(n PurchaseNotification) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Purchase Confirmed</title>
  </head>
  <body style="font-family: sans-serif;">
    <h2>Purchase confirmed</h2>
    <p><strong>%s</strong> (%s) purchased:</p>
    <p>%s &mdash; %.2f</p>
    <p>Order #%s</p>
  </body>
</html>`,
		n.UserName, n.UserEmail, n.GiftName, n.GiftPrice, n.OrderID)
}
