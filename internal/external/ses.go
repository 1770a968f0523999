// Package external contains the provider gateways for outbound delivery:
// AWS SES v2 for email and AWS SNS for SMS. Gateways translate provider
// errors into the domain error taxonomy; retry logic lives in the AWS SDK.
package external

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"claimrelay/internal/types"
)

// SESAPI defines the subset of the SES v2 client used by EmailGateway.
// Extracted for testability; tests can provide a mock implementation.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailGatewayConfig holds the configuration for creating an EmailGateway.
type EmailGatewayConfig struct {
	// ConfigurationSet is the SES configuration set name for delivery
	// tracking. Optional.
	ConfigurationSet string
	Logger           types.Logger
}

// EmailGateway implements types.EmailSender using AWS SES v2.
// Authentication is handled via IAM roles.
type EmailGateway struct {
	api       SESAPI
	configSet string
	logger    types.Logger
}

// NewEmailGateway creates an EmailGateway from an AWS config.
func NewEmailGateway(awsCfg aws.Config, cfg EmailGatewayConfig) *EmailGateway {
	return &EmailGateway{
		api:       sesv2.NewFromConfig(awsCfg),
		configSet: cfg.ConfigurationSet,
		logger:    cfg.Logger,
	}
}

// NewEmailGatewayWithAPI creates an EmailGateway with a pre-configured
// SESAPI. Useful for testing with a mock SES interface.
func NewEmailGatewayWithAPI(api SESAPI, cfg EmailGatewayConfig) *EmailGateway {
	return &EmailGateway{
		api:       api,
		configSet: cfg.ConfigurationSet,
		logger:    cfg.Logger,
	}
}

// Send transmits each message in the batch as one SES SendEmail call with
// simple text content. All messages are attempted; the first failure is
// returned after the batch completes so one bad recipient cannot starve the
// rest.
func (g *EmailGateway) Send(ctx context.Context, batch []types.EmailMessage, resellerID, clientID int64, eventKey string) error {
	var firstErr error
	for _, msg := range batch {
		if err := g.sendOne(ctx, msg, resellerID, eventKey); err != nil {
			g.logger.Error("ses send failed",
				"reseller_id", resellerID,
				"client_id", clientID,
				"to", msg.To,
				"error", err.Error(),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (g *EmailGateway) sendOne(ctx context.Context, msg types.EmailMessage, resellerID int64, eventKey string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Text: &sestypes.Content{
						Data:    aws.String(msg.Body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
		EmailTags: []sestypes.MessageTag{
			{Name: aws.String("event"), Value: aws.String(eventKey)},
			{Name: aws.String("reseller"), Value: aws.String(strconv.FormatInt(resellerID, 10))},
		},
	}

	if g.configSet != "" {
		input.ConfigurationSetName = aws.String(g.configSet)
	}

	if _, err := g.api.SendEmail(ctx, input); err != nil {
		return mapSESError(err)
	}
	return nil
}

// mapSESError translates AWS SES errors into domain AppErrors.
func mapSESError(err error) error {
	var msgRejected *sestypes.MessageRejected
	if errors.As(err, &msgRejected) {
		return types.NewAppError(
			types.ErrCodeEmailBlocked,
			fmt.Sprintf("SES rejected message: %v", err),
			err,
		)
	}

	var tooManyReqs *sestypes.TooManyRequestsException
	if errors.As(err, &tooManyReqs) {
		return types.NewAppError(
			types.ErrCodeUpstreamRateLimited,
			fmt.Sprintf("SES rate limit exceeded: %v", err),
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeUpstreamEmail,
		fmt.Sprintf("SES error: %v", err),
		err,
	)
}

// Compile-time assertion that EmailGateway satisfies types.EmailSender.
var _ types.EmailSender = (*EmailGateway)(nil)
