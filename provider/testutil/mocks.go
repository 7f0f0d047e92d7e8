package testutil

import (
	"context"
	"sync"

	"membrain/model"
)

// MockCaller implements model.Caller for testing
type MockCaller struct {
	// Configurable response
	CallFunc func(ctx context.Context, apiKey string, m model.Model, temperature float64,
		messages []model.Message, taskID string, onContent model.ContentFunc, onFinish model.FinishFunc)

	// Chunks streamed by the default CallFunc before finishing successfully.
	Chunks []string
	// ErrMsg, when non-empty, makes the default CallFunc finish with an error
	// after streaming Chunks.
	ErrMsg string

	mu sync.Mutex
	// Captured state from the last call
	LastAPIKey      string
	LastModel       model.Model
	LastTemperature float64
	LastMessages    []model.Message
	LastTaskID      string
	CallCount       int
}

// NewMockCaller creates a mock caller that streams the given chunks and then
// finishes successfully.
func NewMockCaller(chunks ...string) *MockCaller {
	return &MockCaller{Chunks: chunks}
}

// Call implements model.Caller. It records the arguments and delegates to
// CallFunc when set, otherwise streams Chunks synchronously.
func (c *MockCaller) Call(ctx context.Context, apiKey string, m model.Model, temperature float64,
	messages []model.Message, taskID string, onContent model.ContentFunc, onFinish model.FinishFunc) {

	c.mu.Lock()
	c.LastAPIKey = apiKey
	c.LastModel = m
	c.LastTemperature = temperature
	c.LastMessages = append([]model.Message(nil), messages...)
	c.LastTaskID = taskID
	c.CallCount++
	c.mu.Unlock()

	if c.CallFunc != nil {
		c.CallFunc(ctx, apiKey, m, temperature, messages, taskID, onContent, onFinish)
		return
	}

	for _, chunk := range c.Chunks {
		onContent(taskID, chunk)
	}
	onFinish(taskID, c.ErrMsg)
}

// Calls reports how many times Call ran.
func (c *MockCaller) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

// Messages returns the messages captured from the last call.
func (c *MockCaller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Message(nil), c.LastMessages...)
}
