// Package storeapi is the HTTP client for the ShopSphere backend.
package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"shopsphere/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL     string        // e.g. http://localhost:5000/api
	Timeout     time.Duration // per request
	MaxFailures uint32        // consecutive failures before the breaker opens
	OpenTimeout time.Duration // how long the breaker stays open
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string // the backend's "message" field, if any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// RemoteMessage is the message meant for the user.
func (e *APIError) RemoteMessage() string {
	return e.Message
}

// Client talks to the backend. Requests go through a circuit breaker that
// opens after repeated transport failures or 5xx answers.
type Client struct {
	baseURL string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "storeapi",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		breaker: breaker,
	}
}

type orderItemPayload struct {
	Product string  `json:"product"`
	Name    string  `json:"name"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Image   string  `json:"image"`
}

type orderPayload struct {
	OrderItems  []orderItemPayload `json:"orderItems"`
	TotalAmount float64            `json:"totalAmount"`
}

type createdOrder struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
}

// SubmitOrder posts the submission to /orders on behalf of its identity
// and returns the new order's ID.
func (c *Client) SubmitOrder(ctx context.Context, submission models.OrderSubmission) (string, error) {
	payload := orderPayload{
		OrderItems:  make([]orderItemPayload, 0, len(submission.Items)),
		TotalAmount: submission.TotalAmount.InexactFloat64(),
	}
	for _, item := range submission.Items {
		payload.OrderItems = append(payload.OrderItems, orderItemPayload{
			Product: item.ProductID,
			Name:    item.Name,
			Qty:     item.Quantity,
			Price:   item.Price.InexactFloat64(),
			Image:   item.Image,
		})
	}

	body, err := c.do(ctx, request{
		method:         fiber.MethodPost,
		path:           "/orders",
		token:          submission.Identity.Token,
		idempotencyKey: submission.SubmissionID,
		body:           payload,
	})
	if err != nil {
		return "", err
	}

	var created createdOrder
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	if created.MongoID != "" {
		return created.MongoID, nil
	}
	if created.ID != "" {
		return created.ID, nil
	}
	return "", errors.New("order response has no id")
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	body, err := c.do(ctx, request{
		method: fiber.MethodGet,
		path:   "/products/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return &product, nil
}

// MyOrders lists the orders of identity.
func (c *Client) MyOrders(ctx context.Context, identity models.Identity) ([]models.Order, error) {
	body, err := c.do(ctx, request{
		method: fiber.MethodGet,
		path:   "/orders/myorders",
		token:  identity.Token,
	})
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

type request struct {
	method         string
	path           string
	token          string
	idempotencyKey string
	body           any
}

func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(r, timeout)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s %s: backend unavailable: %w", r.method, r.path, err)
		}
		return nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	return body, nil
}

func (c *Client) send(r request, timeout time.Duration) ([]byte, error) {
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(r.method)
	req.SetRequestURI(c.baseURL + r.path)
	agent.Timeout(timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if r.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+r.token)
	}
	if r.idempotencyKey != "" {
		agent.Set("Idempotency-Key", r.idempotencyKey)
	}
	if r.body != nil {
		agent.JSON(r.body)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// Bytes releases the agent.
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{StatusCode: status, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts {"message": "..."} from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
