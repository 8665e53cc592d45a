package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// MockAnalyzer implements Analyzer
type MockAnalyzer struct {
	FailOn string
	calls  atomic.Int32
}

func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (*model.Report, error) {
	m.calls.Add(1)
	// Later posts finish first so ordering is exercised
	time.Sleep(time.Duration(10-len([]rune(text))%10) * time.Millisecond)
	if m.FailOn != "" && strings.Contains(text, m.FailOn) {
		return nil, errors.New("analyze error")
	}
	return &model.Report{ID: text}, nil
}

func writePosts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessPosts(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 3)

	posts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "ggggggg"}
	results := processor.ProcessPosts(context.Background(), posts)

	if len(results) != len(posts) {
		t.Fatalf("expected %d results, got %d", len(posts), len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %q: %v", res.Text, res.Error)
			continue
		}
		if res.Index != i || res.Text != posts[i] {
			t.Errorf("result %d out of order: index %d text %q", i, res.Index, res.Text)
		}
		if res.Report == nil || res.Report.ID != posts[i] {
			t.Errorf("expected report for %q", posts[i])
		}
	}
}

func TestBatchProcessor_ProcessPosts_Error(t *testing.T) {
	analyzer := &MockAnalyzer{FailOn: "bad"}
	processor := NewBatchProcessor(analyzer, 2)

	results := processor.ProcessPosts(context.Background(), []string{"good", "bad post", "fine"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[1].Report != nil {
		t.Error("expected nil report on error")
	}
	if results[0].Error != nil || results[2].Error != nil {
		t.Error("expected other posts to succeed")
	}
}

func TestBatchProcessor_ProcessPosts_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results := processor.ProcessPosts(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessPosts_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := &MockAnalyzer{}
	posts := []string{"a", "b", "c"}
	results := NewBatchProcessor(analyzer, 2).ProcessPosts(ctx, posts)

	if len(results) != len(posts) {
		t.Fatalf("expected a result per post, got %d", len(results))
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d", i, res.Index)
		}
		if res.Error == nil {
			t.Errorf("expected error for post %d", i)
		}
	}
	if analyzer.calls.Load() != 0 {
		t.Errorf("expected no analysis after cancel, got %d", analyzer.calls.Load())
	}
}

func TestBatchProcessor_WithLimiter(t *testing.T) {
	limiter := NewLimiter(1000, 1)
	processor := NewBatchProcessor(&MockAnalyzer{}, 2).WithLimiter(limiter, "openai")

	results := processor.ProcessPosts(context.Background(), []string{"a", "b", "c"})
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error: %v", res.Error)
		}
	}
}

func TestAnalyzeJob_LimiterCanceled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.Allow("openai") // consume the only token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	analyzer := &MockAnalyzer{}
	job := &AnalyzeJob{Text: "x", Analyzer: analyzer, Limiter: limiter, LimitKey: "openai"}
	res := job.Execute(ctx).(*AnalyzeResult)

	if res.Error == nil || !strings.Contains(res.Error.Error(), "rate limit") {
		t.Errorf("expected rate limit error, got %v", res.Error)
	}
	if analyzer.calls.Load() != 0 {
		t.Error("expected analysis to be skipped")
	}
}

func TestReadPostsFromFile(t *testing.T) {
	content := `明日渋谷駅で待ち合わせ
# comment
連絡は090-1234-5678まで
   
  田中さん(25歳)   `

	posts, err := ReadPostsFromFile(writePosts(t, content))
	if err != nil {
		t.Fatalf("ReadPostsFromFile failed: %v", err)
	}

	expected := []string{"明日渋谷駅で待ち合わせ", "連絡は090-1234-5678まで", "田中さん(25歳)"}
	if len(posts) != len(expected) {
		t.Fatalf("expected %d posts, got %d", len(expected), len(posts))
	}

	for i, post := range posts {
		if post != expected[i] {
			t.Errorf("expected post %q at index %d, got %q", expected[i], i, post)
		}
	}
}

func TestReadPostsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPostsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadPostsFromFile_Deduplication(t *testing.T) {
	posts, err := ReadPostsFromFile(writePosts(t, "同じ投稿\n同じ投稿\n"))
	if err != nil {
		t.Fatalf("ReadPostsFromFile failed: %v", err)
	}

	if len(posts) != 1 {
		t.Errorf("expected 1 post after deduplication, got %d", len(posts))
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{Text: "a", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalyzeResult{Text: "a", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writePosts(t, "one\ntwo\n# comment\n\nthree\n")

	results, err := NewBatchProcessor(&MockAnalyzer{}, 2).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&MockAnalyzer{}, 2).ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	results, err := NewBatchProcessor(&MockAnalyzer{}, 2).ProcessFile(context.Background(), writePosts(t, ""))
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}

func TestReadPostsFromFile_Archive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.js")
	content := `window.YTD.tweets.part0 = [{"tweet":{"full_text":"明日渋谷駅"}},{"tweet":{"full_text":"明日渋谷駅"}}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	posts, err := ReadPostsFromFile(path)
	if err != nil {
		t.Fatalf("ReadPostsFromFile failed: %v", err)
	}
	if len(posts) != 1 || posts[0] != "明日渋谷駅" {
		t.Errorf("expected one archive post, got %v", posts)
	}
}
