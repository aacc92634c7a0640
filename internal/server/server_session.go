package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/contextx"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/httpx/reply"
	"mystic_market/pkg/httpx/req"
	"mystic_market/pkg/logx"
	"mystic_market/pkg/rest"
)

type SessionServer struct {
	appraisalService appraisalService
	awaitTimeout     time.Duration
}

func NewSessionServer(appraisalService appraisalService, awaitTimeout time.Duration) SessionServer {
	return SessionServer{
		appraisalService: appraisalService,
		awaitTimeout:     awaitTimeout,
	}
}

func (s SessionServer) postV1Sessions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SessionRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	patch, err := newDomainSessionPatch(request)
	if err != nil {
		return err
	}

	outcome, err := s.appraisalService.Create(ctx, patch)
	if err != nil {
		return serviceError("appraisalService.Create", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSession(outcome))

	return nil
}

func (s SessionServer) getV1Session(w http.ResponseWriter, r *http.Request) error {
	ctx, id, err := sessionFromPath(r)
	if err != nil {
		return err
	}

	outcome, err := s.appraisalService.Get(ctx, id)
	if err != nil {
		return serviceError("appraisalService.Get", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(outcome))

	return nil
}

func (s SessionServer) patchV1Session(w http.ResponseWriter, r *http.Request) error {
	ctx, id, err := sessionFromPath(r)
	if err != nil {
		return err
	}

	var request rest.SessionRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	patch, err := newDomainSessionPatch(request)
	if err != nil {
		return err
	}

	outcome, err := s.appraisalService.Update(ctx, id, patch)
	if err != nil {
		return serviceError("appraisalService.Update", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(outcome))

	return nil
}

func (s SessionServer) deleteV1Session(w http.ResponseWriter, r *http.Request) error {
	ctx, id, err := sessionFromPath(r)
	if err != nil {
		return err
	}

	if err := s.appraisalService.End(ctx, id); err != nil {
		return serviceError("appraisalService.End", err)
	}

	reply.NoContent(w)

	return nil
}

func (s SessionServer) postV1SessionReroll(w http.ResponseWriter, r *http.Request) error {
	ctx, id, err := sessionFromPath(r)
	if err != nil {
		return err
	}

	outcome, err := s.appraisalService.Reroll(ctx, id)
	if err != nil {
		return serviceError("appraisalService.Reroll", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(outcome))

	return nil
}

// postV1SessionFinalize answers right away unless ?await=true, in which case
// it waits for the notification result up to awaitTimeout.
func (s SessionServer) postV1SessionFinalize(w http.ResponseWriter, r *http.Request) error {
	ctx, id, err := sessionFromPath(r)
	if err != nil {
		return err
	}

	await := false

	if raw := r.URL.Query().Get("await"); raw != "" {
		if await, err = strconv.ParseBool(raw); err != nil {
			return invalidArgument(errcodes.ValidationError, "await must be a boolean", fmt.Errorf("strconv.ParseBool: %w", err))
		}
	}

	receipt, err := s.appraisalService.Finalize(ctx, id)
	if err != nil {
		return serviceError("appraisalService.Finalize", err)
	}

	response := rest.FinalizeResponse{
		Transaction:  newRESTTransaction(receipt.Transaction),
		Notification: s.notificationState(ctx, receipt, await),
	}

	reply.JSON(ctx, w, http.StatusOK, response)

	return nil
}

func (s SessionServer) notificationState(ctx context.Context, receipt service.Receipt, await bool) string {
	if receipt.Notification == nil {
		return rest.NotificationDisabled
	}

	if !await {
		return rest.NotificationDispatched
	}

	timer := time.NewTimer(s.awaitTimeout)
	defer timer.Stop()

	select {
	case ok := <-receipt.Notification:
		if ok {
			return rest.NotificationDelivered
		}

		return rest.NotificationFailed
	case <-timer.C:
		return rest.NotificationDispatched
	case <-ctx.Done():
		return rest.NotificationDispatched
	}
}

// sessionFromPath parses the session id and tags the request logger with it.
func sessionFromPath(r *http.Request) (context.Context, value.SessionID, error) {
	id, err := value.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, "", invalidArgument(errcodes.InvalidSessionID, "Invalid session id", fmt.Errorf("value.ParseSessionID: %w", err))
	}

	ctx := contextx.WithSessionID(r.Context(), contextx.SessionID(id))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(logx.Stringer(logx.FieldSessionID, id)))

	return ctx, id, nil
}
