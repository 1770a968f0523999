package types

// Template placeholder keys, listed in canonical order. Builders append
// fields in this order and the template validator inspects them in slice
// order, so the "first empty key" reported on failure is deterministic.
const (
	FieldComplaintID       = "COMPLAINT_ID"
	FieldComplaintNumber   = "COMPLAINT_NUMBER"
	FieldCreatorID         = "CREATOR_ID"
	FieldCreatorName       = "CREATOR_NAME"
	FieldExpertID          = "EXPERT_ID"
	FieldExpertName        = "EXPERT_NAME"
	FieldClientID          = "CLIENT_ID"
	FieldClientName        = "CLIENT_NAME"
	FieldConsumptionID     = "CONSUMPTION_ID"
	FieldConsumptionNumber = "CONSUMPTION_NUMBER"
	FieldAgreementNumber   = "AGREEMENT_NUMBER"
	FieldDate              = "DATE"
	FieldDifferences       = "DIFFERENCES"
)

// TemplateField is one named placeholder and its rendered value.
type TemplateField struct {
	Key   string
	Value string
}

// TemplateData is the ordered placeholder mapping handed to phrase
// rendering and the channel gateways. Builders append fields in canonical
// order; iteration order is insertion order.
type TemplateData []TemplateField

// Get returns the value for key, or "" when the key is absent.
func (d TemplateData) Get(key string) string {
	for _, f := range d {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Params flattens the data into a map for template execution.
func (d TemplateData) Params() map[string]string {
	m := make(map[string]string, len(d))
	for _, f := range d {
		m[f.Key] = f.Value
	}
	return m
}
