// Package types defines the shared domain model for the claimrelay
// notification service: business entities, the normalized complaint event,
// template data, the per-channel outcome report, and the error taxonomy.
// It has no dependencies on other internal packages so that every layer
// (pipeline, persistence, transport, API) can import it freely.
package types

// EntityKind tags the role an entity plays in a goods-return complaint.
// Resellers, contractors, and employees share one structural shape, so a
// role tag replaces a class hierarchy.
type EntityKind string

const (
	EntitySeller  EntityKind = "seller"
	EntityClient  EntityKind = "client"
	EntityCreator EntityKind = "creator"
	EntityExpert  EntityKind = "expert"
)

// ContractorType classifies a contractor entity. Only customer-type
// contractors may act as the client of a goods-return complaint.
type ContractorType int

const (
	ContractorUnknown  ContractorType = 0
	ContractorCustomer ContractorType = 1
	ContractorSupplier ContractorType = 2
)

// Entity is the single shape shared by all four resolved parties.
// SellerID is the owning reseller for contractors; Email and Mobile are
// optional contact fields used by the client-facing channels.
type Entity struct {
	ID       int64
	Kind     EntityKind
	Type     ContractorType
	Name     string
	SellerID int64
	Email    string
	Mobile   string
}

// NotificationType selects the template phrase and decides whether the
// client-facing channels are attempted.
type NotificationType int

const (
	// NotificationNew signals a new return position was added to the complaint.
	NotificationNew NotificationType = 1
	// NotificationChange signals the complaint status changed.
	NotificationChange NotificationType = 2
)

// StatusChange is the from/to status-code pair carried by CHANGE events.
type StatusChange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// ComplaintEvent is the normalized request produced by the request
// validator. Only ResellerID and Type are guaranteed present; every other
// field passes through as-is and is checked later by template validation.
type ComplaintEvent struct {
	ResellerID        int64
	Type              NotificationType
	ClientID          int64
	CreatorID         int64
	ExpertID          int64
	ComplaintID       int64
	ComplaintNumber   string
	ConsumptionID     int64
	ConsumptionNumber string
	AgreementNumber   string
	Date              string
	Differences       *StatusChange
}

// SMSOutcome reports the client-SMS channel: whether the provider accepted
// the message, and any provider error text (recorded independently of
// success).
type SMSOutcome struct {
	Sent    bool   `json:"isSent"`
	Message string `json:"message"`
}

// NotificationResult is the per-channel outcome report returned by the
// Notify operation. It starts all-false and is mutated in place as each
// channel succeeds; channel failures never abort the operation.
type NotificationResult struct {
	EmployeeEmail bool       `json:"notificationEmployeeByEmail"`
	ClientEmail   bool       `json:"notificationClientByEmail"`
	ClientSMS     SMSOutcome `json:"notificationClientBySms"`
}

// EmailMessage is one rendered message handed to the email gateway.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// EventGoodsReturn is the event key under which recipient permissions and
// gateway telemetry for goods-return complaint notifications are recorded.
const EventGoodsReturn = "goods_return_complaint"
