package youtube

import (
	"context"
	"fmt"
	"html"
	"log"

	"ideascout/internal/models"
	"ideascout/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client wraps the YouTube Data API for keyword search.
type Client struct {
	service *youtube.Service
}

func NewClient(ctx context.Context, cfg *config.YouTubeConfig) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// SearchTrending returns videos matching keyword ordered by descending view
// count. It fetches up to maxPages pages of pageSize results each, stopping
// early when the API stops returning a next-page token, so the result holds
// at most maxPages*pageSize videos in the order the platform returned them.
func (c *Client) SearchTrending(ctx context.Context, keyword string, maxPages, pageSize int64) ([]*models.Video, error) {
	fetch := func(pageToken string) (*youtube.SearchListResponse, error) {
		call := c.service.Search.List([]string{"snippet"}).
			Q(keyword).
			Order("viewCount").
			Type("video").
			MaxResults(pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		return call.Do()
	}

	return collectPages(keyword, maxPages, fetch)
}

func collectPages(keyword string, maxPages int64, fetch func(pageToken string) (*youtube.SearchListResponse, error)) ([]*models.Video, error) {
	var videos []*models.Video
	pageToken := ""

	for page := int64(0); page < maxPages; page++ {
		resp, err := fetch(pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to search videos for %q (page %d): %w", keyword, page+1, err)
		}

		for _, item := range resp.Items {
			videos = append(videos, videoFromSearchResult(item))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	log.Printf("Found %d videos for keyword %q", len(videos), keyword)
	return videos, nil
}

func videoFromSearchResult(item *youtube.SearchResult) *models.Video {
	return &models.Video{
		ID:           item.Id.VideoId,
		Title:        html.UnescapeString(item.Snippet.Title),
		Description:  html.UnescapeString(item.Snippet.Description),
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
		URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
	}
}
