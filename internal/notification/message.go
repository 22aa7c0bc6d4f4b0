package notification

// Message types carried on the notification queue.
const (
	TypeBookingCreated        = "booking.created"
	TypeBookingConfirmed      = "booking.confirmed"
	TypeBookingCancelled      = "booking.cancelled"
	TypeChangeRequestApproved = "change_request.approved"
	TypeChangeRequestRejected = "change_request.rejected"
	TypeVendorApproved        = "vendor.approved"
	TypeVendorRejected        = "vendor.rejected"
	TypeCustomerApproved      = "customer.approved"
	TypeCustomerRejected      = "customer.rejected"
	TypeInquiryReceived       = "inquiry.received"
	TypeVerificationCode      = "otp.code"
)

// Message is one SMS addressed to a phone number.
type Message struct {
	Type      string `json:"type"`
	To        string `json:"to"`
	Body      string `json:"body"`
	RequestID string `json:"request_id,omitempty"`
}
