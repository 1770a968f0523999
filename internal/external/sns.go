package external

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/sony/gobreaker/v2"

	"claimrelay/internal/types"
)

// phraseSMSBody is the catalog key for the client SMS body.
const phraseSMSBody = "sms.body"

// smsUnavailableMsg is reported while the circuit breaker is open.
const smsUnavailableMsg = "sms provider temporarily unavailable"

// SNSAPI defines the subset of the SNS client used by SMSGateway.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSGatewayConfig holds the configuration for creating an SMSGateway.
type SMSGatewayConfig struct {
	// SenderID is the alphanumeric sender shown on the recipient's device
	// where the carrier supports it.
	SenderID string
	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit; BreakerCooldown is how long it stays open.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
	Phrases          types.PhraseRenderer
	Logger           types.Logger
}

// SMSGateway implements types.SMSSender using AWS SNS direct publish to a
// phone number. Sends run through a circuit breaker: when SNS fails
// repeatedly the breaker opens and sends are reported as not sent without
// calling the provider, protecting request latency during outages.
type SMSGateway struct {
	api      SNSAPI
	senderID string
	phrases  types.PhraseRenderer
	breaker  *gobreaker.CircuitBreaker[*sns.PublishOutput]
	logger   types.Logger
}

// NewSMSGateway creates an SMSGateway from an AWS config.
func NewSMSGateway(awsCfg aws.Config, cfg SMSGatewayConfig) *SMSGateway {
	return newSMSGateway(sns.NewFromConfig(awsCfg), cfg)
}

// NewSMSGatewayWithAPI creates an SMSGateway with a pre-configured SNSAPI.
// Useful for testing with a mock SNS interface.
func NewSMSGatewayWithAPI(api SNSAPI, cfg SMSGatewayConfig) *SMSGateway {
	return newSMSGateway(api, cfg)
}

func newSMSGateway(api SNSAPI, cfg SMSGatewayConfig) *SMSGateway {
	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown == 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*sns.PublishOutput](gobreaker.Settings{
		Name:    "sns-sms",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	return &SMSGateway{
		api:      api,
		senderID: cfg.SenderID,
		phrases:  cfg.Phrases,
		breaker:  breaker,
		logger:   cfg.Logger,
	}
}

// Send renders the SMS body and publishes it to the client's phone number.
// A failed send is a reportable outcome, not an error: the provider's
// message is returned alongside the sent flag.
func (g *SMSGateway) Send(ctx context.Context, to string, resellerID, clientID int64, eventKey string, data types.TemplateData) (bool, string) {
	body, err := g.phrases.Render(ctx, phraseSMSBody, data.Params(), resellerID)
	if err != nil {
		g.logger.Error("sms body rendering failed",
			"reseller_id", resellerID,
			"client_id", clientID,
			"error", err.Error(),
		)
		return false, "sms body rendering failed"
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}
	if g.senderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(g.senderID),
		}
	}

	_, err = g.breaker.Execute(func() (*sns.PublishOutput, error) {
		return g.api.Publish(ctx, input)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.logger.Warn("sms circuit breaker open",
				"reseller_id", resellerID,
				"client_id", clientID,
			)
			return false, smsUnavailableMsg
		}
		g.logger.Error("sns publish failed",
			"reseller_id", resellerID,
			"client_id", clientID,
			"error", err.Error(),
		)
		return false, err.Error()
	}

	return true, ""
}

// Compile-time assertion that SMSGateway satisfies types.SMSSender.
var _ types.SMSSender = (*SMSGateway)(nil)
