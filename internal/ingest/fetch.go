// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"time"

	"github.com/pdiddy/screening-engine/internal/httputil"
	"github.com/pdiddy/screening-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "screening-engine/1.0"
)

// Fetcher downloads source files with the shared HTTP policy: request
// timeout, User-Agent, and backoff on transient statuses.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg types.HTTPConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	agent := cfg.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: agent,
	}
}

// FetchSource downloads every file of a source and returns the payloads
// by role plus the manifest entry describing the download. For
// multi-file sources the manifest hash covers all payloads in role
// order, so byte-identical list sets always hash the same.
func (f *Fetcher) FetchSource(ctx context.Context, src Source) (map[string][]byte, types.ManifestEntry, error) {
	urls := src.files()
	roles := make([]string, 0, len(urls))
	for role := range urls {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	payloads := make(map[string][]byte, len(urls))
	h := sha256.New()
	var total int

	for _, role := range roles {
		body, err := httputil.Get(ctx, f.client, urls[role], f.userAgent)
		if err != nil {
			return nil, types.ManifestEntry{}, err
		}
		payloads[role] = body
		h.Write(body)
		total += len(body)
	}

	entry := types.ManifestEntry{
		SourceID:    src.ID,
		DownloadURL: primaryURL(src, roles),
		RetrievedAt: timeNow().UTC().Truncate(time.Second),
		SHA256:      hex.EncodeToString(h.Sum(nil)),
	}
	return payloads, entry, nil
}

func primaryURL(src Source, roles []string) string {
	if src.URL != "" {
		return src.URL
	}
	if url, ok := src.Files[RolePrimary]; ok {
		return url
	}
	if len(roles) > 0 {
		return src.Files[roles[0]]
	}
	return ""
}
