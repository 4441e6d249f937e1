package trendscout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ideascout/internal/models"
	"ideascout/shared/config"
	"ideascout/shared/scheduler"
	"ideascout/shared/storage"
)

type fakeSearcher struct {
	videos []*models.Video
	err    error
}

func (f *fakeSearcher) SearchTrending(ctx context.Context, keyword string, maxPages, pageSize int64) ([]*models.Video, error) {
	return f.videos, f.err
}

type fakeAnalyzer struct {
	calls  int
	failOn int // 1-based call number to fail on, 0 for never
}

func (f *fakeAnalyzer) AnalyzeVideo(ctx context.Context, video *models.Video) (string, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return "", errors.New("model overloaded")
	}
	return "ideas for " + video.ID, nil
}

type fakeSink struct {
	existing    storage.IDLookup
	loadErr     error
	appendCalls int
	appended    []*models.Analysis
}

func (f *fakeSink) LoadExistingIDs(ctx context.Context) (storage.IDLookup, error) {
	return f.existing, f.loadErr
}

func (f *fakeSink) Append(ctx context.Context, analyses []*models.Analysis) error {
	if len(analyses) > 0 {
		f.appendCalls++
	}
	f.appended = append(f.appended, analyses...)
	return nil
}

func testAgent(searcher VideoSearcher, analyzer IdeaAnalyzer, sink IdeaSink) *TrendScoutAgent {
	return &TrendScoutAgent{
		config:   &config.Config{Search: config.SearchConfig{Keyword: "test", MaxPages: 1, PageSize: 10}},
		searcher: searcher,
		analyzer: analyzer,
		sink:     sink,
	}
}

func trendingVideos(n int) []*models.Video {
	videos := make([]*models.Video, 0, n)
	for i := 0; i < n; i++ {
		videos = append(videos, &models.Video{ID: fmt.Sprintf("vid%d", i+1), Title: fmt.Sprintf("Video %d", i+1)})
	}
	return videos
}

func TestRunOnceAnalyzesAndAppendsAllNewVideos(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	sink := &fakeSink{existing: storage.EmptyLookup()}
	agent := testAgent(&fakeSearcher{videos: trendingVideos(2)}, analyzer, sink)

	var metrics TrendMetrics
	events := &scheduler.AgentEvents{
		OnSuccess: func(m scheduler.Metrics, _ time.Duration) {
			metrics = m.(TrendMetrics)
		},
	}

	if err := agent.RunOnce(context.Background(), events); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if analyzer.calls != 2 {
		t.Errorf("analyzer called %d times, want 2", analyzer.calls)
	}
	if sink.appendCalls != 1 {
		t.Errorf("append called %d times, want 1 batched call", sink.appendCalls)
	}
	if len(sink.appended) != 2 {
		t.Errorf("appended %d rows, want 2", len(sink.appended))
	}
	if metrics.Fetched != 2 || metrics.Skipped != 0 || metrics.Appended != 2 {
		t.Errorf("metrics = %+v", metrics)
	}
}

func TestRunOnceSkipsRecordedVideos(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	sink := &fakeSink{existing: storage.NewLookup([]string{"vid1"})}
	agent := testAgent(&fakeSearcher{videos: trendingVideos(2)}, analyzer, sink)

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if analyzer.calls != 1 {
		t.Errorf("analyzer called %d times, want 1", analyzer.calls)
	}
	if len(sink.appended) != 1 || sink.appended[0].Video.ID != "vid2" {
		t.Errorf("appended = %v, want only vid2", sink.appended)
	}
}

func TestRunOnceAnalyzerFailureAbortsWithoutAppend(t *testing.T) {
	analyzer := &fakeAnalyzer{failOn: 2}
	sink := &fakeSink{existing: storage.EmptyLookup()}
	agent := testAgent(&fakeSearcher{videos: trendingVideos(3)}, analyzer, sink)

	err := agent.RunOnce(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error when analyzer fails")
	}

	if analyzer.calls != 2 {
		t.Errorf("analyzer called %d times, want 2 (stop at first failure)", analyzer.calls)
	}
	if sink.appendCalls != 0 {
		t.Errorf("append called %d times, want 0 (completed analyses are discarded)", sink.appendCalls)
	}
	if len(sink.appended) != 0 {
		t.Errorf("appended %d rows, want 0", len(sink.appended))
	}
}

func TestRunOnceNothingNewStillAppendsNothing(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	sink := &fakeSink{existing: storage.NewLookup([]string{"vid1", "vid2"})}
	agent := testAgent(&fakeSearcher{videos: trendingVideos(2)}, analyzer, sink)

	if err := agent.RunOnce(context.Background(), nil); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if analyzer.calls != 0 {
		t.Errorf("analyzer called %d times, want 0", analyzer.calls)
	}
	if sink.appendCalls != 0 {
		t.Errorf("batched append issued for an empty run")
	}
}

func TestRunOnceSearchFailurePropagates(t *testing.T) {
	upstream := errors.New("403 quota exceeded")
	agent := testAgent(&fakeSearcher{err: upstream}, &fakeAnalyzer{}, &fakeSink{})

	err := agent.RunOnce(context.Background(), nil)
	if !errors.Is(err, upstream) {
		t.Errorf("error does not wrap upstream failure: %v", err)
	}
}

func TestTrendScoutAgentName(t *testing.T) {
	agent := NewTrendScoutAgent(&config.Config{})
	expected := "Trend Scout"
	if name := agent.Name(); name != expected {
		t.Errorf("Agent.Name() = %s, want %s", name, expected)
	}
}

func TestTrendMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  TrendMetrics
		expected string
	}{
		{
			name:     "All zeros",
			metrics:  TrendMetrics{},
			expected: "fetched 0 videos, skipped 0 known, appended 0 ideas",
		},
		{
			name:     "Some appended",
			metrics:  TrendMetrics{Fetched: 10, Skipped: 4, Analyzed: 6, Appended: 6},
			expected: "fetched 10 videos, skipped 4 known, appended 6 ideas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.GetSummary(); got != tt.expected {
				t.Errorf("GetSummary() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestAgentImplementsSchedulerInterface(t *testing.T) {
	var _ scheduler.Agent = NewTrendScoutAgent(&config.Config{})
}
