// Package client provides an HTTP client for the visitor register API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/evcraddock/visitor-register/internal/feedback"
	"github.com/evcraddock/visitor-register/internal/prereg"
	"github.com/evcraddock/visitor-register/internal/visitor"
)

// adminTokenHeader matches the header the server checks on admin routes.
const adminTokenHeader = "X-Admin-Token"

// Client is an HTTP client for the visitor register API.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

// New creates a new API client. adminToken may be empty.
func New(baseURL, adminToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		adminToken: adminToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// VisitorResponse is the response from check-in, check-out, and approve.
type VisitorResponse struct {
	Message string           `json:"message"`
	Visitor *visitor.Visitor `json:"visitor"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CheckIn checks a visitor in.
func (c *Client) CheckIn(in visitor.CheckInInput) (*VisitorResponse, error) {
	var resp VisitorResponse
	if err := c.post("/api/checkin", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckOut checks out the visitor currently checked in under contact.
func (c *Client) CheckOut(contact string) (*VisitorResponse, error) {
	var resp VisitorResponse
	if err := c.post("/api/checkout", map[string]string{"contact": contact}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History searches visitors by name or contact. An empty search lists all.
func (c *Client) History(search string) ([]visitor.HistoryEntry, error) {
	path := "/api/history"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}

	var resp struct {
		Visitors []visitor.HistoryEntry `json:"visitors"`
	}
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp.Visitors, nil
}

// Stats returns visitor counts.
func (c *Client) Stats() (*visitor.Stats, error) {
	var s visitor.Stats
	if err := c.get("/api/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Export downloads the visitor log as CSV.
func (c *Client) Export() ([]byte, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/api/export", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.doRaw(req)
}

// GenerateQR returns a PNG QR code linking to the pre-registration page.
func (c *Client) GenerateQR(contact string) ([]byte, error) {
	req, err := c.newJSONRequest("POST", "/api/generate-qr", map[string]string{"contact": contact})
	if err != nil {
		return nil, err
	}
	return c.doRaw(req)
}

// SubmitFeedback submits feedback and returns the server message.
func (c *Client) SubmitFeedback(in feedback.Input) (string, error) {
	var resp messageResponse
	if err := c.post("/api/feedback", in, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Preregister submits a pre-registration and returns the server message.
func (c *Client) Preregister(in prereg.SubmitInput) (string, error) {
	var resp messageResponse
	if err := c.post("/api/preregister", in, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListPreregistrations returns pending pre-registrations.
func (c *Client) ListPreregistrations() ([]*prereg.Preregistration, error) {
	var resp struct {
		Preregistrations []*prereg.Preregistration `json:"preregistrations"`
	}
	if err := c.get("/api/preregistrations", &resp); err != nil {
		return nil, err
	}
	return resp.Preregistrations, nil
}

// Approve approves a pre-registration and checks the visitor in.
func (c *Client) Approve(id int64) (*VisitorResponse, error) {
	var resp VisitorResponse
	if err := c.post(fmt.Sprintf("/api/preregistrations/%d/approve", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Decline declines a pre-registration and returns the server message.
func (c *Client) Decline(id int64) (string, error) {
	var resp messageResponse
	if err := c.post(fmt.Sprintf("/api/preregistrations/%d/decline", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	req, err := c.newJSONRequest("POST", path, body)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

func (c *Client) newJSONRequest(method, path string, body interface{}) (*http.Request, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes a request and decodes a JSON response into result.
func (c *Client) do(req *http.Request, result interface{}) error {
	respBody, err := c.doRaw(req)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// doRaw executes a request with the admin header and returns the body.
func (c *Client) doRaw(req *http.Request) ([]byte, error) {
	if c.adminToken != "" {
		req.Header.Set(adminTokenHeader, c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "server error: " + http.StatusText(resp.StatusCode)}
	}

	return respBody, nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}
