package ingest

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"

	"context"

	"github.com/avasanth/chatbot-ai-service/internal/config"
	"github.com/avasanth/chatbot-ai-service/internal/domain/commonModels"
)

// One pooled client for all document downloads, ingestion batches hit the
// same hosts repeatedly.
var fetchClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
	},
}

// fetchDocument downloads rawURL into a temp file and returns its path. The
// temp file keeps the URL's extension so the extractor can pick the right
// parser. The caller removes the file when done.
func fetchDocument(ctx context.Context, rawURL string) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", commonModels.NewError(commonModels.KindFetch, "invalid document url", err)
	}

	resp, err := fetchClient.Do(req)
	if err != nil {
		return "", commonModels.NewError(commonModels.KindFetch, "download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", commonModels.NewError(commonModels.KindFetch,
			fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	tmp, err := os.CreateTemp("", "ingest-*"+urlExtension(rawURL))
	if err != nil {
		return "", commonModels.NewError(commonModels.KindFetch, "temp file creation failed", err)
	}

	limited := io.LimitReader(resp.Body, config.MaxDocumentBytes)
	if _, err := io.Copy(tmp, limited); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", commonModels.NewError(commonModels.KindFetch, "saving document failed", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", commonModels.NewError(commonModels.KindFetch, "saving document failed", err)
	}
	return tmp.Name(), nil
}

func urlExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
