package conversation

import (
	"context"

	"github.com/PabloGalante/farum-chat/internal/domain"
	"github.com/PabloGalante/farum-chat/internal/observability"
)

// Controller drives one Display for one session: every submit from the
// display goes through the Service and the transcript is re-rendered after.
type Controller struct {
	svc       *Service
	display   domain.Display
	sessionID domain.SessionID
}

// NewController binds display to the session sessionID. An empty id gets a
// fresh session on the first submission.
func NewController(svc *Service, display domain.Display, sessionID domain.SessionID) *Controller {
	return &Controller{svc: svc, display: display, sessionID: sessionID}
}

// Attach registers the controller as the display's submit handler.
func (c *Controller) Attach(ctx context.Context) {
	c.display.OnSubmit(func(text string) {
		c.Handle(ctx, text)
	})
}

// Handle processes one raw input from the display. The pending indicator is
// on for the whole provider call so the display can refuse resubmission.
func (c *Controller) Handle(ctx context.Context, text string) {
	if _, verr := validate(text); verr != nil {
		// nothing will be sent, so there is nothing to wait for
		return
	}

	c.display.ShowPending(true)
	out, err := c.svc.Submit(ctx, SubmitInput{SessionID: c.sessionID, Text: text})
	c.display.ShowPending(false)

	if err != nil {
		observability.LoggerFromContext(ctx).Warn("submission not processed", "error", err)
		return
	}
	c.sessionID = out.SessionID

	if out.Outcome == OutcomeIgnored {
		return
	}

	_, turns, err := c.svc.Transcript(ctx, c.sessionID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to load transcript", "error", err)
		return
	}
	c.display.Render(turns)
}

func (c *Controller) SessionID() domain.SessionID {
	return c.sessionID
}
