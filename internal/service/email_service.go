package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// sesAPI is the part of the SES client the email service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	logger     *zap.Logger
}

// NewEmailService creates a new email service. Without a sender address the
// service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, logger *zap.Logger) (*EmailService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("email")

	if fromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, logger: logger}, nil
	}

	logger.Debug("initializing email service",
		zap.String("region", awsRegion),
		zap.String("from", fromEmail),
		zap.String("app_base_url", appBaseURL))

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email service enabled", zap.String("from", fromEmail), zap.String("region", awsRegion))
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, logger), nil
}

func newEmailService(client sesAPI, fromEmail, fromName, appBaseURL string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		logger:     logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendSessionInvite e-mails an invite code for a multiplayer session
func (s *EmailService) SendSessionInvite(ctx context.Context, toEmail, hostName, gameName, inviteCode string) error {
	if !s.enabled {
		s.logger.Debug("skipping session invite, service disabled", zap.String("to", toEmail))
		return nil
	}

	joinLink := fmt.Sprintf("%s/join?code=%s", s.appBaseURL, inviteCode)
	subject := fmt.Sprintf("%s invited you to play %s!", hostName, gameName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #f5576c; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.code { font-size: 28px; letter-spacing: 4px; font-weight: bold; text-align: center; }
		.button { display: inline-block; padding: 12px 30px; background-color: #f5576c; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Let's play together!</h1>
		</div>
		<div class="content">
			<p>%s started a <strong>%s</strong> session on ABC Hub and wants you to join.</p>
			<p>Your invite code:</p>
			<p class="code">%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Join the Game</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from ABC Hub. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(hostName), html.EscapeString(gameName), inviteCode, joinLink)

	textBody := fmt.Sprintf(`%s started a %s session on ABC Hub and wants you to join.

Your invite code: %s

Join here: %s

---
This is an automated email from ABC Hub. Please do not reply.
`, hostName, gameName, inviteCode, joinLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendFriendInvite e-mails an invitation to become friends on ABC Hub
func (s *EmailService) SendFriendInvite(ctx context.Context, toEmail, fromName string) error {
	if !s.enabled {
		s.logger.Debug("skipping friend invite, service disabled", zap.String("to", toEmail))
		return nil
	}

	subject := fmt.Sprintf("%s wants to be your friend on ABC Hub", fromName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<p><strong>%s</strong> would like to play and learn with you on ABC Hub.</p>
	<p><a href="%s">Open ABC Hub</a></p>
	<p style="font-size: 12px; color: #666;">This is an automated email from ABC Hub. Please do not reply.</p>
</body>
</html>
`, html.EscapeString(fromName), s.appBaseURL)

	textBody := fmt.Sprintf(`%s would like to play and learn with you on ABC Hub.

Open ABC Hub: %s

---
This is an automated email from ABC Hub. Please do not reply.
`, fromName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	fields := []zap.Field{zap.String("to", toEmail), zap.String("subject", subject)}
	if result != nil && result.MessageId != nil {
		fields = append(fields, zap.String("message_id", *result.MessageId))
	}
	s.logger.Info("email sent", fields...)
	return nil
}
