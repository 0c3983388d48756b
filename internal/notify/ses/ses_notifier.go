package ses

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// SendEmailAPI is the subset of the SES v2 client used by the notifier.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      SendEmailAPI
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates a new SES-backed Notifier.
func NewSESNotifier(cfg *config.EmailConfig) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewWithAPI(sesv2.NewFromConfig(awsCfg), cfg), nil
}

// NewWithAPI wraps an existing SES client.
func NewWithAPI(client SendEmailAPI, cfg *config.EmailConfig) port.Notifier {
	return &sesNotifier{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		recipients:  cfg.Recipients,
	}
}

func (s *sesNotifier) AnalysisReady(ctx context.Context, a domain.Analysis) error {
	if len(s.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Analysis ready: %s", a.SourceKey)
	textBody := fmt.Sprintf("The analysis of %s is ready.\n\nLocation: %s\nPages: %d\nModel: %s\nProcessing time: %s\n",
		a.SourceKey, a.DestinationKey, a.Pages, a.Model, a.Duration.Round(time.Millisecond))
	htmlBody := buildAnalysisHTML(a)

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildAnalysisHTML(a domain.Analysis) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; color: #333;">
  <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db;">Analysis ready</h2>
  <p>The analysis of <strong>%s</strong> has been written to the destination bucket.</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0; color: #7f8c8d;">Location</td><td>%s</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #7f8c8d;">Pages</td><td>%d</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; color: #7f8c8d;">Model</td><td>%s</td></tr>
  </table>
</body>
</html>`, html.EscapeString(a.SourceKey), html.EscapeString(a.DestinationKey), a.Pages, html.EscapeString(a.Model))
}
