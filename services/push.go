package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"main/config"
	"main/utils"
)

type PushMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// PushResult reports per-multicast delivery counts and the tokens the
// service flagged as permanently invalid (to be pruned from the profile).
type PushResult struct {
	Delivered     int
	Failed        int
	InvalidTokens []string
}

// Pusher delivers a multicast push to a set of device tokens.
type Pusher interface {
	Send(ctx context.Context, tokens []string, msg PushMessage) (*PushResult, error)
}

type fcmPusher struct {
	cfg    config.PushConfig
	client *http.Client
}

func NewFCMPusher(cfg config.PushConfig) Pusher {
	return &fcmPusher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    PushMessage       `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (p *fcmPusher) Send(ctx context.Context, tokens []string, msg PushMessage) (*PushResult, error) {
	if len(tokens) == 0 {
		return &PushResult{}, nil
	}

	payload, err := json.Marshal(fcmRequest{
		RegistrationIDs: tokens,
		Notification:    msg,
		Data:            msg.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+p.cfg.ServerKey)

	resp, err := p.client.Do(req)
	if err != nil {
		utils.PushDeliveriesTotal.WithLabelValues("failed").Add(float64(len(tokens)))
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.PushDeliveriesTotal.WithLabelValues("failed").Add(float64(len(tokens)))
		return nil, fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	var parsed fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode push response: %w", err)
	}

	result := &PushResult{Delivered: parsed.Success, Failed: parsed.Failure}
	for i, r := range parsed.Results {
		if i >= len(tokens) {
			break
		}
		// NotRegistered and InvalidRegistration are permanent; everything
		// else is treated as transient and the token is kept.
		if r.Error == "NotRegistered" || r.Error == "InvalidRegistration" {
			result.InvalidTokens = append(result.InvalidTokens, tokens[i])
		}
	}

	utils.PushDeliveriesTotal.WithLabelValues("sent").Add(float64(result.Delivered))
	utils.PushDeliveriesTotal.WithLabelValues("failed").Add(float64(result.Failed))
	utils.PushDeliveriesTotal.WithLabelValues("pruned").Add(float64(len(result.InvalidTokens)))
	return result, nil
}
