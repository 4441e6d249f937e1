package trendscout

import (
	"context"
	"fmt"
	"log"
	"time"

	"ideascout/agents/trend-scout/youtube"
	"ideascout/internal/models"
	"ideascout/shared/ai"
	"ideascout/shared/config"
	"ideascout/shared/email"
	"ideascout/shared/scheduler"
	"ideascout/shared/sheets"
	"ideascout/shared/storage"
)

// VideoSearcher finds trending videos for a keyword.
type VideoSearcher interface {
	SearchTrending(ctx context.Context, keyword string, maxPages, pageSize int64) ([]*models.Video, error)
}

// IdeaAnalyzer produces content-idea text for one video.
type IdeaAnalyzer interface {
	AnalyzeVideo(ctx context.Context, video *models.Video) (string, error)
}

// IdeaSink is the destination spreadsheet: source of already-recorded IDs
// and target of the batched row append.
type IdeaSink interface {
	LoadExistingIDs(ctx context.Context) (storage.IDLookup, error)
	Append(ctx context.Context, analyses []*models.Analysis) error
}

// TrendMetrics represents the counts collected during one run
type TrendMetrics struct {
	Fetched  int `json:"fetched"`
	Skipped  int `json:"skipped"`
	Analyzed int `json:"analyzed"`
	Appended int `json:"appended"`
}

// GetSummary implements the scheduler.Metrics interface
func (m TrendMetrics) GetSummary() string {
	return fmt.Sprintf("fetched %d videos, skipped %d known, appended %d ideas", m.Fetched, m.Skipped, m.Appended)
}

// TrendScoutAgent implements the scheduler.Agent interface. Collaborators
// are injected so tests can substitute fakes; Initialize fills in the real
// ones only where nothing was set.
type TrendScoutAgent struct {
	config      *config.Config
	searcher    VideoSearcher
	analyzer    IdeaAnalyzer
	sink        IdeaSink
	emailSender *email.Sender
}

func NewTrendScoutAgent(cfg *config.Config) *TrendScoutAgent {
	return &TrendScoutAgent{config: cfg}
}

func (t *TrendScoutAgent) Name() string {
	return "Trend Scout"
}

func (t *TrendScoutAgent) Initialize() error {
	log.Printf("Initializing %s...", t.Name())
	ctx := context.Background()

	if t.searcher == nil {
		client, err := youtube.NewClient(ctx, &t.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		t.searcher = client
		log.Println("YouTube client initialized")
	}

	if t.analyzer == nil {
		analyzer, err := ai.NewAnalyzer(ctx, &t.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI analyzer: %w", err)
		}
		t.analyzer = analyzer
		log.Println("AI analyzer initialized")
	}

	if t.sink == nil {
		sink, err := sheets.NewSink(ctx, &t.config.Sheets)
		if err != nil {
			return fmt.Errorf("failed to create Sheets sink: %w", err)
		}
		t.sink = sink
		log.Println("Sheets sink initialized")
	}

	if t.emailSender == nil && t.config.EmailEnabled() {
		t.emailSender = email.NewSender(&t.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

// RunOnce performs one pass of the pipeline: search, drop already-recorded
// videos, analyze the rest one at a time, then append everything in a
// single batch. The first analyzer failure aborts the run with nothing
// appended, so a re-run cannot write duplicate rows.
func (t *TrendScoutAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	search := t.config.Search

	log.Printf("Searching trending videos for %q (up to %d pages of %d)...", search.Keyword, search.MaxPages, search.PageSize)
	videos, err := t.searcher.SearchTrending(ctx, search.Keyword, search.MaxPages, search.PageSize)
	if err != nil {
		return fmt.Errorf("failed to search trending videos: %w", err)
	}

	existing, err := t.sink.LoadExistingIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load existing IDs: %w", err)
	}
	log.Printf("Sheet holds %d recorded videos", existing.Count())

	newVideos := storage.FilterNew(videos, existing)
	skipped := len(videos) - len(newVideos)
	log.Printf("Found %d videos (%d new, %d already recorded)", len(videos), len(newVideos), skipped)

	metrics := TrendMetrics{Fetched: len(videos), Skipped: skipped}

	var analyses []*models.Analysis
	for i, video := range newVideos {
		log.Printf("Analyzing video %d/%d: %s", i+1, len(newVideos), video.Title)

		ideas, err := t.analyzer.AnalyzeVideo(ctx, video)
		if err != nil {
			return fmt.Errorf("failed to analyze video %s (%s): %w", video.ID, video.Title, err)
		}
		analyses = append(analyses, &models.Analysis{Video: video, Ideas: ideas})
		metrics.Analyzed++
	}

	if err := t.sink.Append(ctx, analyses); err != nil {
		return fmt.Errorf("failed to append analyses: %w", err)
	}
	metrics.Appended = len(analyses)

	if t.emailSender != nil && len(analyses) > 0 {
		report := &models.RunReport{
			Date:     time.Now(),
			Keyword:  search.Keyword,
			Analyses: analyses,
			Fetched:  len(videos),
			Skipped:  skipped,
		}
		if err := t.emailSender.SendDigest(report); err != nil {
			// The rows are already in the sheet, so a digest failure is not fatal
			log.Printf("Warning: Failed to send run digest: %v", err)
		}
	}

	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}

	log.Printf("Run complete: %s", metrics.GetSummary())
	return nil
}
