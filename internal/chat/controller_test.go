package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	apierrors "github.com/diogo/projassist/internal/errors"
	"github.com/diogo/projassist/internal/history"
	"github.com/diogo/projassist/internal/models"
)

type fakeAsker struct {
	mu        sync.Mutex
	resp      *models.AssistantResponse
	err       error
	questions []string
}

func (f *fakeAsker) Ask(_ context.Context, question string) (*models.AssistantResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, question)
	return f.resp, f.err
}

func (f *fakeAsker) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}

func success(answer string) *models.AssistantResponse {
	return &models.AssistantResponse{Success: true, Data: &models.ResponseData{Answer: answer}}
}

func newTestController(asker Asker, opts ...Option) (*Controller, *history.Store) {
	store := history.NewStore(models.Greeting)
	return NewController(store, asker, opts...), store
}

func TestSubmit_AppendsOneUserAndOneAssistantMessage(t *testing.T) {
	inputs := []string{"hello", "  padded question  ", "multi\nline", "**bold** ask"}

	for _, input := range inputs {
		asker := &fakeAsker{resp: success("answer")}
		c, store := newTestController(asker)

		c.SetBuffer(input)
		if !c.Submit(context.Background()) {
			t.Fatalf("Submit(%q) refused", input)
		}

		msgs := store.Snapshot()
		if len(msgs) != 3 {
			t.Fatalf("Submit(%q): store has %d messages, want 3", input, len(msgs))
		}
		user, reply := msgs[1], msgs[2]
		if !user.IsUser() || user.Content != strings.TrimSpace(input) {
			t.Errorf("user message = %+v, want content %q", user, strings.TrimSpace(input))
		}
		if !reply.IsAssistant() || reply.Content != "answer" {
			t.Errorf("assistant message = %+v", reply)
		}
		if asker.calls() != 1 || asker.questions[0] != strings.TrimSpace(input) {
			t.Errorf("asker got %v", asker.questions)
		}
		if c.State() != StateIdle {
			t.Errorf("State() = %v, want idle", c.State())
		}
		if c.Buffer() != "" {
			t.Errorf("Buffer() = %q, want empty", c.Buffer())
		}
	}
}

func TestSubmit_EmptyBufferIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		asker := &fakeAsker{resp: success("x")}
		c, store := newTestController(asker)

		c.SetBuffer(input)
		if c.Submit(context.Background()) {
			t.Errorf("Submit(%q) should be refused", input)
		}
		if store.Len() != 1 {
			t.Errorf("Submit(%q) mutated the store: len = %d", input, store.Len())
		}
		if asker.calls() != 0 {
			t.Errorf("Submit(%q) called the asker", input)
		}
		if c.Buffer() != input {
			t.Errorf("refused submit should keep the buffer, got %q", c.Buffer())
		}
	}
}

func TestSubmit_TransportFailureUsesFallback(t *testing.T) {
	netErr := apierrors.NewNetworkError("ask", errors.New("connection refused"))
	c, store := newTestController(&fakeAsker{err: netErr})

	c.SetBuffer("anyone there?")
	c.Submit(context.Background())

	last, _ := store.Last()
	if last.Content != models.FallbackConnectionMessage {
		t.Errorf("last message = %q, want %q", last.Content, models.FallbackConnectionMessage)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	if store.Len() != 3 {
		t.Errorf("store len = %d, want 3", store.Len())
	}
}

func TestSubmit_ResponseTexts(t *testing.T) {
	testCases := []struct {
		name string
		resp *models.AssistantResponse
		want string
	}{
		{"answer", success("Apollo is 80% done"), "Apollo is 80% done"},
		{"empty answer", success(""), models.FallbackEmptyAnswer},
		{"upstream error", &models.AssistantResponse{Error: &models.ResponseError{Message: "Backend overloaded"}}, "Backend overloaded"},
		{"upstream error without message", &models.AssistantResponse{}, models.FallbackUpstreamError},
		{"gateway internal error", models.NewInternalError(1), models.InternalErrorMessage},
		{"nil response", nil, models.FallbackConnectionMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, store := newTestController(&fakeAsker{resp: tc.resp})
			c.SetBuffer("q")
			c.Submit(context.Background())

			last, _ := store.Last()
			if last.Content != tc.want {
				t.Errorf("assistant message = %q, want %q", last.Content, tc.want)
			}
		})
	}
}

func TestBegin_RefusedWhilePending(t *testing.T) {
	asker := &fakeAsker{resp: success("ok")}
	c, store := newTestController(asker)

	c.SetBuffer("first")
	turn, ok := c.Begin()
	if !ok {
		t.Fatal("first Begin refused")
	}
	if c.State() != StatePending {
		t.Fatalf("State() = %v, want pending", c.State())
	}

	c.SetBuffer("second")
	if _, ok := c.Begin(); ok {
		t.Error("Begin while pending should be refused")
	}
	if c.Submit(context.Background()) {
		t.Error("Submit while pending should be refused")
	}
	if store.Len() != 2 {
		t.Errorf("store len = %d, want 2", store.Len())
	}
	if asker.calls() != 0 {
		t.Errorf("asker called %d times while pending", asker.calls())
	}
	if c.Buffer() != "second" {
		t.Errorf("buffer should be kept while pending, got %q", c.Buffer())
	}

	resp, err := c.Ask(context.Background(), turn)
	if _, ok := c.Settle(turn, resp, err); !ok {
		t.Fatal("Settle refused the pending turn")
	}
	if c.State() != StateComposing {
		t.Errorf("State() = %v, want composing with buffered text", c.State())
	}
}

func TestSettle_IgnoresStaleTurn(t *testing.T) {
	c, store := newTestController(&fakeAsker{})

	c.SetBuffer("q")
	turn, _ := c.Begin()

	if _, ok := c.Settle(Turn{ID: turn.ID + 1}, success("x"), nil); ok {
		t.Error("Settle accepted an unknown turn")
	}
	if _, ok := c.Settle(turn, success("real"), nil); !ok {
		t.Fatal("Settle refused the pending turn")
	}
	if _, ok := c.Settle(turn, success("again"), nil); ok {
		t.Error("Settle accepted the same turn twice")
	}

	if store.Len() != 3 {
		t.Errorf("store len = %d, want 3", store.Len())
	}
	last, _ := store.Last()
	if last.Content != "real" {
		t.Errorf("last = %q, want real", last.Content)
	}
}

func TestStateListener(t *testing.T) {
	var states []State
	c, _ := newTestController(&fakeAsker{resp: success("ok")},
		WithStateListener(func(s State) { states = append(states, s) }))

	c.SetBuffer("q")
	c.Submit(context.Background())

	if len(states) != 2 || states[0] != StatePending || states[1] != StateIdle {
		t.Errorf("transitions = %v, want [pending idle]", states)
	}
}

func TestState(t *testing.T) {
	c, _ := newTestController(&fakeAsker{})
	if c.State() != StateIdle {
		t.Errorf("initial State() = %v", c.State())
	}
	c.SetBuffer("typing")
	if c.State() != StateComposing {
		t.Errorf("State() = %v, want composing", c.State())
	}
	c.ClearBuffer()
	if c.State() != StateIdle {
		t.Errorf("State() = %v, want idle", c.State())
	}
	if StatePending.String() != "pending" {
		t.Errorf("StatePending.String() = %s", StatePending)
	}
}

func TestConcurrentSubmits_OneTurn(t *testing.T) {
	block := make(chan struct{})
	var calls int
	var mu sync.Mutex
	asker := AskerFunc(func(ctx context.Context, q string) (*models.AssistantResponse, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-block
		return success("done"), nil
	})
	c, store := newTestController(asker)
	c.SetBuffer("only once")

	var wg sync.WaitGroup
	accepted := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accepted <- c.Submit(context.Background())
		}()
	}
	close(block)
	wg.Wait()
	close(accepted)

	n := 0
	for ok := range accepted {
		if ok {
			n++
		}
	}
	if n != 1 || calls != 1 {
		t.Errorf("accepted = %d, calls = %d, want 1 and 1", n, calls)
	}
	if store.Len() != 3 {
		t.Errorf("store len = %d, want 3", store.Len())
	}
}
