package notifier

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/jvalladares/tienda-backend/internal/config"
)

// EmailSender sends transactional mail through AWS SES.
type EmailSender struct {
	client *ses.Client
	sender string
}

// NewEmailSender builds the SES client once at startup.
func NewEmailSender(cfg *config.Config) (*EmailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}
	return &EmailSender{client: ses.NewFromConfig(awsCfg), sender: cfg.SenderEmail}, nil
}

// SendInvoiceConfirmation emails the customer after a successful checkout.
func (e *EmailSender) SendInvoiceConfirmation(recipient, customerName string, invoiceID int64, total float64) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("Invoice #%d Confirmation - Thank You for Your Purchase!", invoiceID)
	totalStr := strconv.FormatFloat(total, 'f', 2, 64)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your invoice #%d has been created.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Invoice ID: %d</li>
                <li>Total Amount: L %s</li>
            </ul>
            <p>We'll send you another email when your order ships.</p>
            <p>Best regards,</p>
            <p>The Tienda Team</p>
        </body>
        </html>`, customerName, invoiceID, invoiceID, totalStr)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your invoice #%d has been created.\n\n"+
			"Order Details:\nInvoice ID: %d\nTotal Amount: L %s\n\n"+
			"We'll send you another email when your order ships.\n\nBest regards,\nThe Tienda Team",
		customerName, invoiceID, invoiceID, totalStr)

	input := &ses.SendEmailInput{
		Source: aws.String(e.sender),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := e.client.SendEmail(context.Background(), input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("Invoice confirmation email sent for invoice %d to %s", invoiceID, recipient)
	return nil
}
