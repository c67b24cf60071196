package usecase

import (
	"context"
	"errors"
	"testing"
)

// fakeChatClient scripts responses for both endpoints and counts calls.
type fakeChatClient struct {
	chatReply   string
	chatErr     error
	plainReply  string
	plainErr    error
	chatCalls   int
	plainCalls  int
	lastSystem  string
	lastUser    string
	lastPlain   string
	lastMaxToks int
}

func (f *fakeChatClient) ChatCompletion(_ context.Context, system, user string, maxTokens int) (string, error) {
	f.chatCalls++
	f.lastSystem = system
	f.lastUser = user
	f.lastMaxToks = maxTokens
	return f.chatReply, f.chatErr
}

func (f *fakeChatClient) Completion(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.plainCalls++
	f.lastPlain = prompt
	f.lastMaxToks = maxTokens
	return f.plainReply, f.plainErr
}

func TestRatePrimarySucceeds(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatReply: " 3 \n"}
	e := NewEnricher(chat, nil)

	got := e.Rate(context.Background(), "big acquisition news")
	if got != "3" {
		t.Fatalf("Rate = %q, want trimmed reply", got)
	}
	if chat.chatCalls != 1 || chat.plainCalls != 0 {
		t.Fatalf("calls = %d chat / %d plain, want 1/0", chat.chatCalls, chat.plainCalls)
	}
	if chat.lastMaxToks != 10 {
		t.Fatalf("rating max tokens = %d, want 10", chat.lastMaxToks)
	}
}

func TestRateFallsBackOnce(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatErr: errors.New("boom"), plainReply: "7"}
	e := NewEnricher(chat, nil)

	if got := e.Rate(context.Background(), "minor update"); got != "7" {
		t.Fatalf("Rate = %q, want fallback reply", got)
	}
	if chat.chatCalls != 1 || chat.plainCalls != 1 {
		t.Fatalf("calls = %d chat / %d plain, want 1/1", chat.chatCalls, chat.plainCalls)
	}
	// the fallback prompt is the same user prompt the chat endpoint saw
	if chat.lastPlain != chat.lastUser {
		t.Fatalf("fallback prompt %q differs from user prompt %q", chat.lastPlain, chat.lastUser)
	}
}

func TestSentinelsWhenBothEndpointsFail(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatErr: errors.New("down"), plainErr: errors.New("also down")}
	e := NewEnricher(chat, nil)
	ctx := context.Background()

	if got := e.Rate(ctx, "x"); got != RatingFailed {
		t.Errorf("Rate sentinel = %q", got)
	}
	if got := e.Summarize(ctx, "x"); got != SummaryFailed {
		t.Errorf("Summarize sentinel = %q", got)
	}
	if got := e.TranslateToChinese(ctx, "some real text"); got != TranslationFailed {
		t.Errorf("TranslateToChinese sentinel = %q", got)
	}
}

func TestSummarizeMaxTokens(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatReply: "three sentences."}
	e := NewEnricher(chat, nil)

	if got := e.Summarize(context.Background(), "full article"); got != "three sentences." {
		t.Fatalf("Summarize = %q", got)
	}
	if chat.lastMaxToks != 150 {
		t.Fatalf("summary max tokens = %d, want 150", chat.lastMaxToks)
	}
}

func TestTranslateShortCircuits(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatReply: "should never be used"}
	e := NewEnricher(chat, nil)
	ctx := context.Background()

	if got := e.TranslateToChinese(ctx, ""); got != NothingToTranslate {
		t.Fatalf("empty input: got %q", got)
	}
	if got := e.TranslateToChinese(ctx, "Error: x"); got != NothingToTranslate {
		t.Fatalf("sentinel input: got %q", got)
	}
	if chat.chatCalls != 0 || chat.plainCalls != 0 {
		t.Fatalf("short circuit must not call the API, got %d/%d calls", chat.chatCalls, chat.plainCalls)
	}
}

func TestTranslateSucceeds(t *testing.T) {
	t.Parallel()

	chat := &fakeChatClient{chatReply: "中文摘要"}
	e := NewEnricher(chat, nil)

	if got := e.TranslateToChinese(context.Background(), "an English summary"); got != "中文摘要" {
		t.Fatalf("TranslateToChinese = %q", got)
	}
	if chat.lastMaxToks != 300 {
		t.Fatalf("translate max tokens = %d, want 300", chat.lastMaxToks)
	}
}
