// README: Typed estimate failures and the classification of upstream errors.
package estimate

import (
	"context"
	"errors"

	"vtc/internal/backend"
	"vtc/internal/modules/pricing"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindResolution Kind = "resolution"
	KindRemote     Kind = "remote"
	KindNetwork    Kind = "network"
	KindTimeout    Kind = "timeout"
	KindNoTariff   Kind = "no_tariff"
)

const (
	MsgInvalidDateTime   = "enter a valid date (YYYY-MM-DD) and time (HH:MM)"
	MsgInvalidPassengers = "passenger count must be between 1 and 4"
	MsgUnknownService    = "unknown service type"
	MsgHoursRequired     = "select how many hours you need"
	MsgOriginUnresolved  = "could not resolve origin coordinates"
	MsgDestUnresolved    = "could not resolve destination coordinates"
	MsgEstimateFailed    = "could not calculate the trip estimate"
	MsgTimedOut          = "the request timed out"
	MsgNoTariff          = "no applicable tariff"
)

// Failure is the only error type Service.Estimate returns. Message is safe to show to users.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return string(f.Kind) + ": " + f.Message + ": " + f.Err.Error()
	}
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(kind Kind, msg string) *Failure {
	return &Failure{Kind: kind, Message: msg}
}

// Classify maps any pricing or transport error to a Failure.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, pricing.ErrNoApplicableTariff) {
		return &Failure{Kind: KindNoTariff, Message: MsgNoTariff, Err: err}
	}
	if errors.Is(err, backend.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: KindTimeout, Message: MsgTimedOut, Err: err}
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg := MsgEstimateFailed
		if apiErr.HasMessage() {
			msg = apiErr.Message
		}
		return &Failure{Kind: KindRemote, Message: msg, Err: err}
	}
	return &Failure{Kind: KindNetwork, Message: MsgEstimateFailed, Err: err}
}
