package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"turnero/internal/catalog/models"
)

// maxCatalogBytes caps the catalog document size.
const maxCatalogBytes = 1 << 20

// Fetcher retrieves the raw catalog records.
type Fetcher func(ctx context.Context) ([]models.Specialty, error)

// SourceFetcher reads the catalog from an http(s) URL or a file path.
// A nil client means http.DefaultClient.
func SourceFetcher(source string, client *http.Client) Fetcher {
	return func(ctx context.Context) ([]models.Specialty, error) {
		var (
			data []byte
			err  error
		)
		if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
			data, err = fetchURL(ctx, source, client)
		} else {
			data, err = os.ReadFile(source)
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", source, err)
		}
		return Decode(data)
	}
}

func fetchURL(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
}

// Decode parses a catalog document: a JSON array of {name, doctor}.
func Decode(data []byte) ([]models.Specialty, error) {
	var records []models.Specialty
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d: name is required", i)
		}
	}
	return records, nil
}
