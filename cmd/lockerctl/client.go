package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
)

// client is a thin wrapper over the server's admin API.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) do(method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *client) listLockers() ([]model.Locker, error) {
	var lockers []model.Locker
	if err := c.do(http.MethodGet, "/api/admin/lockers", nil, &lockers); err != nil {
		return nil, err
	}
	return lockers, nil
}

func (c *client) forceRelease(lockerID int64) error {
	body := map[string]int64{"locker_id": lockerID}
	return c.do(http.MethodPost, "/api/admin/lockers/release", body, nil)
}

func (c *client) setStatus(lockerID int64, status string) error {
	body := map[string]string{"status": status}
	return c.do(http.MethodPut, fmt.Sprintf("/api/admin/lockers/%d", lockerID), body, nil)
}
