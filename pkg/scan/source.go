package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ErrNotFound marks the upstream source having no verified interface for
// an address. This is a distinct page state, never "zero functions by
// design".
var ErrNotFound = errors.New("no verified interface for address")

// Source fetches raw interface descriptions from a block-explorer style
// API (module=contract&action=getabi).
type Source struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewSource builds a source against an explorer API endpoint.
func NewSource(baseURL, apiKey string, log zerolog.Logger) *Source {
	return &Source{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("component", "scan").Logger(),
	}
}

type explorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// FetchRawABI returns the raw interface description for an address.
// Unverified or unknown contracts return ErrNotFound.
func (s *Source) FetchRawABI(ctx context.Context, address string) ([]RawItem, error) {
	q := url.Values{}
	q.Set("module", "contract")
	q.Set("action", "getabi")
	q.Set("address", address)
	if s.apiKey != "" {
		q.Set("apikey", s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", s.baseURL, q.Encode()), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building interface request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching interface")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading interface response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("interface source returned status %d", resp.StatusCode)
	}

	var envelope explorerResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decoding interface envelope")
	}
	if envelope.Message != "OK" {
		s.log.Debug().Str("address", address).Str("message", envelope.Message).Msg("Interface source has no definition")
		return nil, ErrNotFound
	}

	var raw []RawItem
	if err := json.Unmarshal([]byte(envelope.Result), &raw); err != nil {
		return nil, errors.Wrap(err, "decoding raw interface")
	}
	s.log.Info().Str("address", address).Int("entries", len(raw)).Msg("Fetched raw interface")
	return raw, nil
}
