package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/core"
	"launchpad/internal/credentials"
	"launchpad/internal/providers"
	"launchpad/internal/providers/deepseek"
	"launchpad/internal/providers/groq"
	"launchpad/internal/providers/openrouter"
)

func newTestFactory() *providers.Factory {
	f := providers.NewFactory()
	f.Register(groq.Registration)
	f.Register(deepseek.Registration)
	f.Register(openrouter.Registration)
	return f
}

func newTestDispatcher(t *testing.T, baseURLs map[string]string) *Dispatcher {
	t.Helper()
	resolver := credentials.NewResolver(credentials.Static(map[string]string{
		"GROQ_API_KEY":     "gsk-test",
		"DEEPSEEK_API_KEY": "sk-test",
	}))
	return New(newTestFactory(), resolver, Config{
		Models: map[string]string{
			"groq":     "llama-3.3-70b-versatile",
			"deepseek": "deepseek-reasoner",
		},
		BaseURLs: baseURLs,
	})
}

func TestDispatch_FastEngine(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"## Target Audience\n..."}}]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	res, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineFast,
		SystemPrompt: "You are a startup expert...",
		UserPrompt:   "An AI-powered 3D generation tool",
	})
	require.NoError(t, err)
	assert.Equal(t, "## Target Audience\n...", res.Text)
	assert.Equal(t, "groq", res.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", res.Model)

	var sent core.ChatRequest
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, core.RoleSystem, sent.Messages[0].Role)
	assert.Equal(t, "You are a startup expert...", sent.Messages[0].Content)
	assert.Equal(t, core.RoleUser, sent.Messages[1].Role)
	assert.Equal(t, "An AI-powered 3D generation tool", sent.Messages[1].Content)
	require.NotNil(t, sent.Temperature)
	assert.Equal(t, 0.7, *sent.Temperature)
	require.NotNil(t, sent.MaxTokens)
	assert.Equal(t, 1500, *sent.MaxTokens)
}

func TestDispatch_ReasoningEngineStripsTrace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"model":"deepseek-reasoner","choices":[{"message":{"content":"<thinking>...</think>Final answer here"}}]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"deepseek": server.URL})

	res, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineReasoning,
		SystemPrompt: "You are a Stage-Gate review board.",
		UserPrompt:   "MVP test results: ...",
	})
	require.NoError(t, err)
	assert.Equal(t, "Final answer here", res.Text)
	assert.Equal(t, "deepseek", res.Provider)
}

func TestDispatch_ConcreteProviderType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	res, err := d.Dispatch(context.Background(), Request{
		Engine:       "groq",
		Model:        "llama-3.1-8b-instant",
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", res.Model)
}

func TestDispatch_DefaultEngineIsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	res, err := d.Dispatch(context.Background(), Request{
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "groq", res.Provider)
}

func TestDispatch_UnknownProvider(t *testing.T) {
	d := newTestDispatcher(t, nil)

	_, err := d.Dispatch(context.Background(), Request{
		Engine:       "grok-5",
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.Error(t, err)
	assert.Equal(t, core.ErrorKindUnknownProvider, core.KindOf(err))
	assert.Contains(t, err.Error(), "grok-5")
}

func TestDispatch_MissingCredentialShortCircuits(t *testing.T) {
	var outbound atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outbound.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"never"}}]}`))
	}))
	defer server.Close()

	os.Unsetenv("DEEPSEEK_API_KEY")
	resolver := credentials.NewResolver(credentials.Static(nil))
	d := New(newTestFactory(), resolver, Config{
		BaseURLs: map[string]string{"deepseek": server.URL},
	})

	_, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineReasoning,
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.Error(t, err)
	assert.Equal(t, core.ErrorKindMissingCredential, core.KindOf(err))
	assert.Contains(t, err.Error(), "missing")

	var de *core.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "deepseek", de.Provider)

	// The call must never have reached the network.
	assert.Equal(t, int64(0), outbound.Load())
}

func TestDispatch_ProviderFailureCarriesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	_, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineFast,
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.Error(t, err)
	assert.Equal(t, core.ErrorKindProvider, core.KindOf(err))
	assert.Contains(t, err.Error(), "groq")
}

func TestDispatch_EmptyChoicesIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	_, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineFast,
		SystemPrompt: "sys",
		UserPrompt:   "user",
	})
	require.Error(t, err)
	assert.Equal(t, core.ErrorKindProvider, core.KindOf(err))
	assert.Contains(t, err.Error(), "no choices")
}

func TestDispatch_TuningOverridesApplied(t *testing.T) {
	var sent core.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	d := newTestDispatcher(t, map[string]string{"groq": server.URL})

	temp := 0.6
	maxTokens := 2000
	_, err := d.Dispatch(context.Background(), Request{
		Engine:       EngineFast,
		SystemPrompt: "sys",
		UserPrompt:   "user",
		Temperature:  &temp,
		MaxTokens:    &maxTokens,
	})
	require.NoError(t, err)
	require.NotNil(t, sent.Temperature)
	assert.Equal(t, 0.6, *sent.Temperature)
	require.NotNil(t, sent.MaxTokens)
	assert.Equal(t, 2000, *sent.MaxTokens)
}

func TestDispatch_CustomEngineTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	resolver := credentials.NewResolver(credentials.Static(map[string]string{
		"OPENROUTER_API_KEY": "sk-or-test",
	}))
	d := New(newTestFactory(), resolver, Config{
		Engines:       map[string]string{"fast": "openrouter", "reasoning": "openrouter"},
		DefaultEngine: EngineReasoning,
		Models:        map[string]string{"openrouter": "deepseek/deepseek-r1"},
		BaseURLs:      map[string]string{"openrouter": server.URL},
	})

	res, err := d.Dispatch(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", res.Provider)
	assert.Equal(t, "deepseek/deepseek-r1", res.Model)
}
