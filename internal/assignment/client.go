package assignment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const assignPath = "/api/lockers/assign"

// AssignedLocker is the backend's answer for a seat block.
type AssignedLocker struct {
	LockerID string
	Location string
	Zone     string
}

// Client talks to the external locker allocation API. It performs exactly
// one HTTP round trip per call; retries are the guest's decision, never
// the client's.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type assignRequest struct {
	SeatBlock string `json:"seatBlock"`
	UserID    string `json:"userId,omitempty"`
}

type assignResponse struct {
	Success bool `json:"success"`
	Data    struct {
		LockerID string `json:"lockerId"`
		Location string `json:"location"`
		Zone     string `json:"zone"`
	} `json:"data"`
}

// errorBody accepts both error field spellings the backend is known to use.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Assign requests a locker for the given seat block. userID may be empty
// for anonymous kiosks; it is then omitted from the request body.
func (c *Client) Assign(ctx context.Context, seatBlock, userID string) (*AssignedLocker, error) {

	body, err := json.Marshal(assignRequest{
		SeatBlock: seatBlock,
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+assignPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Message: genericFailureMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: genericFailureMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(data),
		}
	}

	var parsed assignResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &MalformedResponseError{Reason: "body is not valid JSON"}
	}

	if parsed.Data.LockerID == "" || parsed.Data.Location == "" {
		return nil, &MalformedResponseError{Reason: "missing locker id or location"}
	}

	return &AssignedLocker{
		LockerID: parsed.Data.LockerID,
		Location: parsed.Data.Location,
		Zone:     parsed.Data.Zone,
	}, nil
}

// extractErrorMessage pulls a human-readable message from an error body,
// accepting either {"error": ...} or {"message": ...}. Anything else gets
// the generic message.
func extractErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return genericFailureMessage
	}
	if eb.Error != "" {
		return eb.Error
	}
	if eb.Message != "" {
		return eb.Message
	}
	return genericFailureMessage
}
