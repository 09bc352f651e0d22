// Package content talks to the drama/keyword catalog and progress submission
// collaborators over HTTP, with cache-backed reads for offline resilience.
package content

import (
	"context"

	"github.com/soramame/dramalearn/internal/keyword"
)

// Drama is the catalog metadata for one micro-drama episode.
type Drama struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"videoUrl"`
	SubtitleURL string `json:"subtitleUrl"`
}

// DramaContent is a drama plus its ordered keyword list.
type DramaContent struct {
	Drama    Drama                `json:"drama"`
	Keywords []keyword.Definition `json:"keywords"`
}

//go:generate mockgen -source=types.go -destination=../mocks/content/mock_content.go -package=mock_content

// Fetcher is the read side of the content collaborator.
type Fetcher interface {
	FetchDramaContent(ctx context.Context, dramaID string) (*DramaContent, error)
	FetchSubtitles(ctx context.Context, url string) (string, error)
}
