package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// MaxUploadBytes is the ceiling for both file and JSON uploads. Anything
// larger is rejected before any network call is made.
const MaxUploadBytes = 10 << 20

// ErrNotFound marks a content id the store has no blob for.
var ErrNotFound = errors.New("content not found")

// ErrQuotaExceeded marks an upload above the size ceiling.
var ErrQuotaExceeded = errors.New("upload exceeds size limit")

// Config carries the pinning-service endpoint and credentials. It is
// injected at construction, never read from ambient process state.
type Config struct {
	APIURL     string
	GatewayURL string
	JWT        string
}

// Store is a client for a content-addressed pinning service. Content ids
// replace mutable file paths; the store itself has no ownership notion.
type Store struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

// NewStore builds a store client from injected configuration.
func NewStore(cfg Config, log zerolog.Logger) *Store {
	return &Store{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log.With().Str("component", "content").Logger(),
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Put uploads a file and returns its content id.
func (s *Store) Put(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) > MaxUploadBytes {
		return "", errors.Wrapf(ErrQuotaExceeded, "file %s is %d bytes", name, len(data))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", errors.Wrap(err, "building multipart body")
	}
	if _, err := part.Write(data); err != nil {
		return "", errors.Wrap(err, "writing multipart body")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart body")
	}

	id, err := s.pin(ctx, "/pinning/pinFileToIPFS", writer.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("name", name).Str("contentId", id).Int("bytes", len(data)).Msg("Pinned file")
	return id, nil
}

// PutJSON uploads a JSON document and returns its content id.
func (s *Store) PutJSON(ctx context.Context, doc any) (string, error) {
	payload, err := json.Marshal(map[string]any{"pinataContent": doc})
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	if len(payload) > MaxUploadBytes {
		return "", errors.Wrapf(ErrQuotaExceeded, "document is %d bytes", len(payload))
	}

	id, err := s.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	s.log.Info().Str("contentId", id).Int("bytes", len(payload)).Msg("Pinned document")
	return id, nil
}

func (s *Store) pin(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL+path, body)
	if err != nil {
		return "", errors.Wrap(err, "building pin request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.cfg.JWT)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling pinning service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("pinning service returned status %d", resp.StatusCode)
	}
	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", errors.Wrap(err, "decoding pin response")
	}
	if pinned.IpfsHash == "" {
		return "", errors.New("pinning service returned no content id")
	}
	return pinned.IpfsHash, nil
}

// Get fetches the raw bytes behind a content id from the gateway.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ipfs/%s", s.cfg.GatewayURL, id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building gateway request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "content id %s", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("gateway returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GetJSON fetches and decodes a JSON document by content id.
func (s *Store) GetJSON(ctx context.Context, id string, into any) error {
	data, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(data, into), "decoding content %s", id)
}

// Unpin releases a content id so the service can garbage-collect it.
// Unpinning an already-gone id is not an error.
func (s *Store) Unpin(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.cfg.APIURL+"/pinning/unpin/"+id, nil)
	if err != nil {
		return errors.Wrap(err, "building unpin request")
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.JWT)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling pinning service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return errors.Newf("unpin returned status %d", resp.StatusCode)
	}
	s.log.Debug().Str("contentId", id).Msg("Unpinned content")
	return nil
}
