package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/restaurante-kishimoto/kishimoto-web/config"
)

// Mailer delivers transactional email to customers
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// SESAPI is the subset of the SES client the mailer needs
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

var resetEmailHTML = template.Must(template.New("reset").Parse(`
        <html>
        <body>
            <p>Olá {{.Name}},</p>
            <p>Recebemos um pedido para redefinir a sua senha.</p>
            <p><a href="{{.Link}}">Clique aqui para escolher uma nova senha</a>.</p>
            <p>Se você não fez este pedido, ignore este email.</p>
            <p>Restaurante Kishimoto</p>
        </body>
        </html>`))

// SESMailer sends email through Amazon SES
type SESMailer struct {
	client SESAPI
	sender string
}

// NewMailer returns an SES mailer when a sender address is configured and a
// logging mailer otherwise. Production requires a sender.
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	if cfg.AWSSESSender == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("AWS_SES_SENDER is required in production")
		}
		log.Println("AWS_SES_SENDER not set, password reset links will only be logged")
		return LogMailer{}, nil
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewSESMailer(ses.NewFromConfig(awsCfg), cfg.AWSSESSender), nil
}

// NewSESMailer wraps an SES client
func NewSESMailer(client SESAPI, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender}
}

// SendPasswordReset emails a password reset link
func (m *SESMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	if to == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := "Restaurante Kishimoto - Redefinição de senha"
	var bodyHTML bytes.Buffer
	err := resetEmailHTML.Execute(&bodyHTML, struct{ Name, Link string }{name, link})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	bodyText := fmt.Sprintf(
		"Olá %s,\n\nRecebemos um pedido para redefinir a sua senha.\n\n"+
			"Acesse %s para escolher uma nova senha.\n\n"+
			"Se você não fez este pedido, ignore este email.\n\nRestaurante Kishimoto",
		name, link)

	input := &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML.String()),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		log.Printf("Failed to send password reset email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Password reset email sent to %s", to)
	return nil
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct{}

// SendPasswordReset logs the reset link
func (LogMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	log.Printf("Password reset link for %s <%s>: %s", name, to, link)
	return nil
}

// loadAWSConfig builds the AWS configuration shared by S3 and SES.
// Static credentials are used when both keys are set; otherwise the default
// provider chain applies.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}
