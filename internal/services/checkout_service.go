package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shopsphere/internal/models"

	"github.com/sirupsen/logrus"
)

// User-facing checkout messages.
const (
	LoginPath = "/login"

	MsgEmptyCart       = "Your bag is empty"
	MsgLoginRequired   = "Please login to proceed with checkout"
	MsgPending         = "Connecting to ShopSphere Secure Gateway..."
	MsgOrderSuccessful = "Order Successful! Your premium items are being prepared for dispatch. Thank you for choosing ShopSphere."
	MsgSubmitFallback  = "Transaction timed out. Please try again."
)

// OrderSubmitter places an order with the backend and returns its ID.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, submission models.OrderSubmission) (string, error)
}

// IdentityProvider reports the signed-in user, if any.
type IdentityProvider interface {
	Identity() (models.Identity, bool)
}

// remoteMessager is implemented by errors that carry a message from the
// backend meant for the user.
type remoteMessager interface {
	RemoteMessage() string
}

// CheckoutResult describes how a checkout attempt ended.
type CheckoutResult struct {
	State      models.CheckoutState `json:"state"`
	OrderID    string               `json:"order_id,omitempty"`
	RedirectTo string               `json:"redirect,omitempty"`
	Message    string               `json:"message"`
}

// CheckoutService turns the cart into a remote order. At most one
// submission runs at a time; the cart is cleared only after the backend
// confirms the order and is left untouched on any failure.
type CheckoutService struct {
	cart      *CartService
	auth      IdentityProvider
	submitter OrderSubmitter
	notifier  Notifier
	log       logrus.FieldLogger

	mu    sync.Mutex
	state models.CheckoutState
	last  models.CheckoutState
}

// NewCheckoutService creates a new CheckoutService in the idle state.
func NewCheckoutService(cart *CartService, auth IdentityProvider, submitter OrderSubmitter, notifier Notifier, log logrus.FieldLogger) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		auth:      auth,
		submitter: submitter,
		notifier:  notifier,
		log:       log,
		state:     models.CheckoutIdle,
		last:      models.CheckoutIdle,
	}
}

// InitiateCheckout submits the current cart as an order.
//
// An empty cart or a missing identity ends the attempt before the backend
// is contacted. A second call while a submission is in flight returns
// ErrCheckoutInProgress. Once submitted, the call waits for the backend's
// answer even if ctx is cancelled; the transport's timeout bounds the wait.
func (s *CheckoutService) InitiateCheckout(ctx context.Context) (*CheckoutResult, error) {
	if s.cart.Len() == 0 {
		s.notifier.Notify(models.NotificationError, MsgEmptyCart)
		return &CheckoutResult{State: models.CheckoutIdle, Message: MsgEmptyCart}, ErrEmptyCart
	}

	identity, ok := s.auth.Identity()
	if !ok {
		s.notifier.Notify(models.NotificationError, MsgLoginRequired)
		return &CheckoutResult{
			State:      models.CheckoutIdle,
			RedirectTo: LoginPath,
			Message:    MsgLoginRequired,
		}, ErrUnauthenticated
	}

	if !s.begin() {
		return &CheckoutResult{State: models.CheckoutSubmitting, Message: MsgPending}, ErrCheckoutInProgress
	}

	// The snapshot is taken after entering Submitting so nothing can clear
	// the cart between the emptiness check above and the copy.
	submission := models.NewOrderSubmission(s.cart.Snapshot(), identity)
	if len(submission.Items) == 0 {
		s.finish(models.CheckoutIdle)
		s.notifier.Notify(models.NotificationError, MsgEmptyCart)
		return &CheckoutResult{State: models.CheckoutIdle, Message: MsgEmptyCart}, ErrEmptyCart
	}

	s.notifier.Notify(models.NotificationPending, MsgPending)
	log := s.log.WithFields(logrus.Fields{
		"submission_id": submission.SubmissionID,
		"user_id":       identity.UserID,
		"items":         len(submission.Items),
		"total":         submission.TotalAmount.StringFixed(2),
	})
	log.Info("Submitting order")

	// The clear after a placed order must reach the repository even if the
	// caller has gone away.
	ctx = context.WithoutCancel(ctx)
	orderID, err := s.submitter.SubmitOrder(ctx, submission)
	if err != nil {
		s.finish(models.CheckoutFailed)
		message := failureMessage(err)
		log.WithError(err).Warn("Order submission failed, cart left unchanged")
		s.notifier.Notify(models.NotificationError, message)
		return &CheckoutResult{State: models.CheckoutFailed, Message: message},
			fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.cart.Clear(ctx)
	s.finish(models.CheckoutSucceeded)
	log.WithField("order_id", orderID).Info("Order placed")
	s.notifier.Notify(models.NotificationSuccess, MsgOrderSuccessful)

	return &CheckoutResult{
		State:   models.CheckoutSucceeded,
		OrderID: orderID,
		Message: MsgOrderSuccessful,
	}, nil
}

// State is the controller's current state: Idle or Submitting.
func (s *CheckoutService) State() models.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome is the terminal state of the most recent submission, or Idle
// if none has finished yet.
func (s *CheckoutService) LastOutcome() models.CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *CheckoutService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.CheckoutSubmitting {
		return false
	}
	s.state = models.CheckoutSubmitting
	return true
}

// finish records outcome and returns the controller to Idle.
func (s *CheckoutService) finish(outcome models.CheckoutState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.IsTerminal() {
		s.last = outcome
	}
	s.state = models.CheckoutIdle
}

func failureMessage(err error) string {
	var rm remoteMessager
	if errors.As(err, &rm) && rm.RemoteMessage() != "" {
		return rm.RemoteMessage()
	}
	return MsgSubmitFallback
}
