package failure

import "errors"

// Kind classifies a rejected operation. Callers branch on the kind, never on the message.
type Kind string

const (
	NotAuthorized           Kind = "not_authorized"
	AlreadyExists           Kind = "already_exists"
	InvalidParameter        Kind = "invalid_parameter"
	NotFound                Kind = "not_found"
	NotActive               Kind = "not_active"
	AlreadyRepaid           Kind = "already_repaid"
	CapacityExceeded        Kind = "capacity_exceeded"
	AuthorityNotConfigured  Kind = "authority_not_configured"
	VerificationUnavailable Kind = "verification_unavailable"
	DistributionFailed      Kind = "distribution_failed"
	TransferFailed          Kind = "transfer_failed"
)

// Error is a typed rejection. Field is set only for InvalidParameter.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
}

func (e *Error) Error() string { return e.Msg }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Invalid(field, msg string) *Error {
	return &Error{Kind: InvalidParameter, Field: field, Msg: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for
// infrastructure errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// FieldOf returns the offending field of an InvalidParameter error.
func FieldOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
