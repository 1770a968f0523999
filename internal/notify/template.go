package notify

import (
	"context"
	"fmt"
	"strconv"

	"claimrelay/internal/types"
)

// Phrase keys consumed from the PhraseRenderer catalog.
const (
	PhraseNewPosition   = "diff.new_position"
	PhraseStatusChanged = "diff.status_changed"
	PhraseEmailSubject  = "email.subject"
	PhraseEmailBody     = "email.body"
)

// TemplateBuilder assembles the placeholder mapping for message rendering.
// It is a pure transformation over the normalized event and resolved
// parties; the only collaborators are the phrase catalog and the
// status-name table.
type TemplateBuilder struct {
	phrases  types.PhraseRenderer
	statuses types.StatusNamer
}

// NewTemplateBuilder creates a TemplateBuilder.
func NewTemplateBuilder(phrases types.PhraseRenderer, statuses types.StatusNamer) *TemplateBuilder {
	return &TemplateBuilder{phrases: phrases, statuses: statuses}
}

// Build produces the ordered TemplateData for the event.
//
// CLIENT_NAME is the composed display form "name (#id)", falling back to
// the raw name when composition yields nothing. DIFFERENCES depends on the
// notification type: NEW events always render the fixed "new position"
// phrase; CHANGE events render the status transition when the event carries
// a target status; everything else leaves it empty, to be rejected by
// Validate.
func (b *TemplateBuilder) Build(ctx context.Context, event *types.ComplaintEvent, parties *ResolvedParties) (types.TemplateData, error) {
	differences, err := b.renderDifferences(ctx, event)
	if err != nil {
		return nil, err
	}

	return types.TemplateData{
		{Key: types.FieldComplaintID, Value: itoa(event.ComplaintID)},
		{Key: types.FieldComplaintNumber, Value: event.ComplaintNumber},
		{Key: types.FieldCreatorID, Value: itoa(event.CreatorID)},
		{Key: types.FieldCreatorName, Value: parties.Creator.Name},
		{Key: types.FieldExpertID, Value: itoa(event.ExpertID)},
		{Key: types.FieldExpertName, Value: parties.Expert.Name},
		{Key: types.FieldClientID, Value: itoa(event.ClientID)},
		{Key: types.FieldClientName, Value: clientDisplayName(parties.Client)},
		{Key: types.FieldConsumptionID, Value: itoa(event.ConsumptionID)},
		{Key: types.FieldConsumptionNumber, Value: event.ConsumptionNumber},
		{Key: types.FieldAgreementNumber, Value: event.AgreementNumber},
		{Key: types.FieldDate, Value: event.Date},
		{Key: types.FieldDifferences, Value: differences},
	}, nil
}

// renderDifferences computes the DIFFERENCES phrase per the sub-rule in
// Build's contract. Unknown status codes render through the status-name
// table's "Unknown" placeholder rather than failing.
func (b *TemplateBuilder) renderDifferences(ctx context.Context, event *types.ComplaintEvent) (string, error) {
	switch {
	case event.Type == types.NotificationNew:
		return b.phrases.Render(ctx, PhraseNewPosition, nil, event.ResellerID)
	case event.Type == types.NotificationChange && hasTargetStatus(event):
		params := map[string]string{
			"FROM": b.statuses.StatusName(event.Differences.From),
			"TO":   b.statuses.StatusName(event.Differences.To),
		}
		return b.phrases.Render(ctx, PhraseStatusChanged, params, event.ResellerID)
	default:
		return "", nil
	}
}

// hasTargetStatus reports whether the event carries a usable status
// transition. A zero target status counts as empty, matching the uniform
// emptiness rule used across the pipeline.
func hasTargetStatus(event *types.ComplaintEvent) bool {
	return event.Differences != nil && event.Differences.To != 0
}

// ValidateTemplate enforces the strict completeness gate before any
// dispatch: every field is mandatory, including DIFFERENCES. The first
// empty key encountered (in canonical field order) is reported. A NEW
// notification with no phrase, or a CHANGE notification whose differences
// were empty, therefore fails the entire operation.
func ValidateTemplate(data types.TemplateData) error {
	for _, f := range data {
		if f.Value == "" {
			return types.NewAppError(types.ErrCodeTemplateIncomplete,
				fmt.Sprintf("template field %s is empty", f.Key), nil)
		}
	}
	return nil
}

// clientDisplayName composes "name (#id)" for the client, falling back to
// the raw name when the composed form would be blank.
func clientDisplayName(client *types.Entity) string {
	if client.Name == "" || client.ID == 0 {
		return client.Name
	}
	return fmt.Sprintf("%s (#%d)", client.Name, client.ID)
}

// itoa renders an id for template use. Zero ids render as "" so that the
// template validator needs only a single blank check.
func itoa(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
