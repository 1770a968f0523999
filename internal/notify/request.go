// Package notify implements the goods-return complaint notification
// pipeline: request normalization, entity resolution, template assembly and
// validation, and per-channel dispatch. The pipeline is synchronous and
// stateless; all I/O goes through the ports defined in internal/types.
package notify

import (
	"encoding/json"
	"strconv"
	"strings"

	"claimrelay/internal/types"
)

// ParseEvent normalizes an untyped request payload into a ComplaintEvent.
//
// Only resellerId and notificationType are validated here: resellerId must
// coerce to a non-zero integer and notificationType must be present. All
// other fields pass through uninspected; missing values surface later as
// template validation failures. The template validator owns completeness,
// this layer owns routing identity.
func ParseEvent(payload map[string]any) (*types.ComplaintEvent, error) {
	resellerID, _ := coerceInt64(payload["resellerId"])
	if resellerID == 0 {
		return nil, types.NewAppError(types.ErrCodeValidationMissingReseller,
			"resellerId is required and must be a non-zero integer", nil)
	}

	notificationType, ok := coerceInt64(payload["notificationType"])
	if !ok {
		return nil, types.NewAppError(types.ErrCodeValidationMissingType,
			"notificationType is required", nil)
	}

	event := &types.ComplaintEvent{
		ResellerID:        resellerID,
		Type:              types.NotificationType(notificationType),
		ComplaintNumber:   coerceString(payload["complaintNumber"]),
		ConsumptionNumber: coerceString(payload["consumptionNumber"]),
		AgreementNumber:   coerceString(payload["agreementNumber"]),
		Date:              coerceString(payload["date"]),
		Differences:       parseDifferences(payload["differences"]),
	}
	event.ClientID, _ = coerceInt64(payload["clientId"])
	event.CreatorID, _ = coerceInt64(payload["creatorId"])
	event.ExpertID, _ = coerceInt64(payload["expertId"])
	event.ComplaintID, _ = coerceInt64(payload["complaintId"])
	event.ConsumptionID, _ = coerceInt64(payload["consumptionId"])

	return event, nil
}

// parseDifferences extracts the from/to status-code pair. Returns nil when
// the field is absent or not an object; partial objects keep zero values,
// which downstream treats as empty.
func parseDifferences(v any) *types.StatusChange {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	diff := &types.StatusChange{}
	diff.From, _ = coerceInt64(obj["from"])
	diff.To, _ = coerceInt64(obj["to"])
	return diff
}

// coerceInt64 converts the loosely-typed values seen in JSON payloads
// (float64, json.Number, numeric strings) into an int64. The second return
// is false when the value is absent or not integer-coercible.
func coerceInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		i, err := strconv.ParseInt(s, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// coerceString renders a payload value as a string. Numbers format as
// decimals; anything else non-string yields "".
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case json.Number:
		return s.String()
	default:
		return ""
	}
}
