package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"darkchess/communication"
	"darkchess/experiments/metrics"
	"darkchess/game"
	"darkchess/searcher/agent"

	"github.com/rs/zerolog/log"
)

// RemoteAgent asks a move selection server for actions at a fixed tier.
type RemoteAgent struct {
	serverURL string
	tier      string
	http      *http.Client
}

var _ agent.Agent = (*RemoteAgent)(nil)

func NewRemoteAgent(serverURL, tier string) *RemoteAgent {
	return &RemoteAgent{
		serverURL: serverURL,
		tier:      tier,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *RemoteAgent) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.serverURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed: status %d", resp.StatusCode)
	}
	return nil
}

// SelectMove sends the board to the server. seed may be nil for a server-chosen seed.
func (a *RemoteAgent) SelectMove(ctx context.Context, b *game.Board, seed *uint64) (communication.SelectMoveResponse, error) {
	var out communication.SelectMoveResponse
	err := a.post(ctx, "/api/selectmove", communication.SelectMoveRequest{Board: b, Tier: a.tier, Seed: seed}, &out)
	return out, err
}

// Legal returns the legal actions of a board, as computed by the server.
func (a *RemoteAgent) Legal(ctx context.Context, b *game.Board) ([]game.Action, error) {
	var out communication.LegalResponse
	err := a.post(ctx, "/api/legal", communication.LegalRequest{Board: b}, &out)
	return out.Actions, err
}

// FindMove implements agent.Agent. Transport failures are logged and yield the zero
// action, which callers validate against the legal set.
func (a *RemoteAgent) FindMove(b *game.Board) (game.Action, metrics.SearchMetric) {
	resp, err := a.SelectMove(context.Background(), b, nil)
	if err != nil {
		log.Error().Err(err).Msg("remote move selection failed")
		return game.Action{}, metrics.SearchMetric{Tier: a.tier}
	}
	return resp.Action, resp.Metric
}

func (a *RemoteAgent) post(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.serverURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr communication.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("request to %s failed with status %d: %s", path, resp.StatusCode, apiErr.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
