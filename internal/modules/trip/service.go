// README: Trip service. Creates, reads, lists and cancels reservations through the backend.
package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vtc/internal/auth"
	"vtc/internal/backend"
	"vtc/internal/logging"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("trip not found")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRejected        = errors.New("backend rejected the request")
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type apiClient interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

type Service struct {
	client apiClient
	log    *slog.Logger
}

func NewService(client apiClient, log *slog.Logger) *Service {
	return &Service{client: client, log: logging.OrDiscard(log)}
}

type createPayload struct {
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	TravelDate         string   `json:"travel_date"`
	TravelTime         string   `json:"travel_time"`
	NumberOfPassengers int      `json:"number_of_passengers"`
	ServiceType        string   `json:"service_type"`
	NumberOfHours      *int     `json:"number_of_hours,omitempty"`
	Supplements        []string `json:"supplements"`
	Comments           string   `json:"comments"`
}

type tripEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Trip  *Trip  `json:"trip"`
		Trips []Trip `json:"trips"`
	} `json:"data"`
}

// Create validates cmd and books it. The returned message is the backend's
// confirmation text, or a default one.
func (s *Service) Create(ctx context.Context, sess auth.Session, cmd CreateCommand) (*Trip, string, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return nil, "", err
	}
	payload, err := newCreatePayload(cmd)
	if err != nil {
		return nil, "", err
	}

	var resp tripEnvelope
	if err := s.client.Post(ctx, "/trips/create", payload, &resp); err != nil {
		return nil, "", s.mapErr("create trip", err)
	}
	if !resp.Success || resp.Data.Trip == nil {
		return nil, "", fmt.Errorf("create trip: %w", ErrRejected)
	}
	msg := resp.Message
	if msg == "" {
		msg = "trip created"
	}
	s.log.Info("trip created", "uid", sess.UID, "trip_id", resp.Data.Trip.ID, "service_type", payload.ServiceType)
	return resp.Data.Trip, msg, nil
}

func (s *Service) Get(ctx context.Context, sess auth.Session, id string) (*Trip, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBadRequest
	}

	var resp tripEnvelope
	if err := s.client.Get(ctx, "/trips/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, s.mapErr("get trip", err)
	}
	if !resp.Success || resp.Data.Trip == nil {
		return nil, ErrNotFound
	}
	return resp.Data.Trip, nil
}

// List returns one page of the caller's trips. Out-of-range paging falls back to defaults.
func (s *Service) List(ctx context.Context, sess auth.Session, page, limit int) ([]Trip, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var resp tripEnvelope
	params := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(limit)}}
	if err := s.client.Get(ctx, "/trips/my-trips", params, &resp); err != nil {
		return nil, s.mapErr("list trips", err)
	}
	if !resp.Success || resp.Data.Trips == nil {
		return []Trip{}, nil
	}
	return resp.Data.Trips, nil
}

// Cancel moves a trip to cancelled. Trips whose status cannot reach cancelled
// are rejected locally with ErrInvalidState.
func (s *Service) Cancel(ctx context.Context, sess auth.Session, id, reason string) (string, error) {
	t, err := s.Get(ctx, sess, id)
	if err != nil {
		return "", err
	}
	if !CanTransition(t.Status, StatusCancelled) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidState, t.Status, StatusCancelled)
	}

	ctx, err = s.authorize(ctx, sess)
	if err != nil {
		return "", err
	}
	body := map[string]string{"reason": strings.TrimSpace(reason)}
	var resp tripEnvelope
	if err := s.client.Post(ctx, "/trips/"+url.PathEscape(string(t.ID))+"/cancel", body, &resp); err != nil {
		return "", s.mapErr("cancel trip", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("cancel trip: %w", ErrRejected)
	}
	s.log.Info("trip cancelled", "uid", sess.UID, "trip_id", t.ID, "from", t.Status)
	if resp.Message == "" {
		return "trip cancelled", nil
	}
	return resp.Message, nil
}

func (s *Service) authorize(ctx context.Context, sess auth.Session) (context.Context, error) {
	if !sess.Valid() {
		return ctx, ErrUnauthenticated
	}
	return backend.WithToken(ctx, sess.Token), nil
}

func (s *Service) mapErr(op string, err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %s", op, ErrBadRequest, apiErr.Message)
		}
	}
	s.log.Error("trip backend call failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func newCreatePayload(cmd CreateCommand) (createPayload, error) {
	origin, dest := strings.TrimSpace(cmd.Origin), strings.TrimSpace(cmd.Destination)
	if origin == "" || dest == "" {
		return createPayload{}, fmt.Errorf("%w: origin and destination are required", ErrBadRequest)
	}
	date, err := types.ParseDate(cmd.PickupDate)
	if err != nil {
		return createPayload{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	clock, err := types.ParseClock(cmd.PickupTime)
	if err != nil {
		return createPayload{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if cmd.Passengers < 1 || cmd.Passengers > 4 {
		return createPayload{}, fmt.Errorf("%w: passenger count must be between 1 and 4", ErrBadRequest)
	}
	st := cmd.ServiceType
	if st == "" {
		st = pricing.ServiceOneWay
	}
	if !st.Valid() {
		return createPayload{}, fmt.Errorf("%w: %v %q", ErrBadRequest, pricing.ErrUnknownServiceType, st)
	}

	p := createPayload{
		Origin:             origin,
		Destination:        dest,
		TravelDate:         date.String(),
		TravelTime:         clock.String(),
		NumberOfPassengers: cmd.Passengers,
		ServiceType:        string(st),
		Supplements:        cmd.Supplements,
		Comments:           strings.TrimSpace(cmd.Comments),
	}
	if p.Supplements == nil {
		p.Supplements = []string{}
	}
	if st == pricing.ServiceHourly {
		if cmd.HoursNeeded <= 0 {
			return createPayload{}, fmt.Errorf("%w: select how many hours you need", ErrBadRequest)
		}
		hours := cmd.HoursNeeded
		p.NumberOfHours = &hours
	}
	return p, nil
}
