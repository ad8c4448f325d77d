package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcastle/fieldops/pkg/conversation"
)

// memoryConversations stores history in memory, newest first
type memoryConversations struct {
	messages map[string][]conversation.Message
}

func newMemoryConversations() *memoryConversations {
	return &memoryConversations{messages: make(map[string][]conversation.Message)}
}

func (m *memoryConversations) SaveMessage(_ context.Context, msg *conversation.Message) error {
	m.messages[msg.UserID] = append([]conversation.Message{*msg}, m.messages[msg.UserID]...)
	return nil
}

func (m *memoryConversations) GetUserHistory(_ context.Context, userID string, limit, offset int) ([]conversation.Message, error) {
	history := m.messages[userID]
	if offset >= len(history) {
		return nil, nil
	}
	history = history[offset:]
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (m *memoryConversations) DeleteUserHistory(_ context.Context, userID string) error {
	delete(m.messages, userID)
	return nil
}

func (m *memoryConversations) CountUserMessages(_ context.Context, userID string) (int, error) {
	return len(m.messages[userID]), nil
}

func newTestManager(completer *fakeCompleter, executor *fakeExecutor) *Manager {
	return NewManager(completer, executor, newFakeCatalog(), newMemoryConversations(), nopLogger{})
}

func TestProcessTurnSingleTurnCommand(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "ADD_STOCK", "confidence": 0.95, "reasoning": "adding stock"}`},
		{text: `{"parameters": {"item": "M10 nuts", "quantity": 5, "location": "rack 1 bin 6"}, "confidence": 0.9}`},
	}}
	executor := newFakeExecutor()
	executor.results[ActionAddStock] = &CommandResult{Success: true, Message: "Added 5 M10 nuts to rack 1 bin 6."}
	manager := newTestManager(completer, executor)

	out, err := manager.ProcessTurn(context.Background(), "u1", "add 5 M10 nuts to rack 1 bin 6")
	require.NoError(t, err)

	assert.True(t, out.Done)
	assert.Equal(t, "Added 5 M10 nuts to rack 1 bin 6.", out.Message)
	assert.False(t, manager.HasPending("u1"))
}

func TestProcessTurnCollectsMissingFieldAcrossTurns(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "ADD_PRODUCT", "confidence": 0.9, "reasoning": "new item"}`},
		{text: `{"parameters": {"name": "cable", "cost": 25}, "confidence": 0.85}`},
		// second turn: the reply is classified, then re-extracted
		{text: `{"action": "UNCLEAR_QUERY", "confidence": 0.7, "reasoning": "bare code"}`},
		{text: `{"parameters": {"partNumber": "CAB-001"}, "confidence": 0.8}`},
	}}
	executor := newFakeExecutor()
	executor.results[ActionAddProduct] = &CommandResult{Success: true, Message: "Added cable to the catalogue."}
	manager := newTestManager(completer, executor)

	out, err := manager.ProcessTurn(context.Background(), "u1", "add new item cable cost 25")
	require.NoError(t, err)
	require.NotNil(t, out.Pending)
	assert.Contains(t, out.Message, "partNumber")
	assert.True(t, manager.HasPending("u1"))

	out, err = manager.ProcessTurn(context.Background(), "u1", "CAB-001")
	require.NoError(t, err)

	assert.True(t, out.Done)
	assert.False(t, manager.HasPending("u1"))
	require.Len(t, executor.calls, 1)
	assert.Equal(t, ActionAddProduct, executor.calls[0].action)
	assert.Equal(t, "cable", executor.calls[0].params["name"])
	assert.Equal(t, "CAB-001", executor.calls[0].params["partNumber"])
	assert.Equal(t, float64(25), executor.calls[0].params["cost"])
}

func TestProcessTurnBareLocationAnswersPendingQuestion(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "ADD_STOCK", "confidence": 0.9, "reasoning": "adding stock"}`},
		{text: `{"parameters": {"item": "M10 nuts", "quantity": 5}, "confidence": 0.85}`},
		// a bare "rack 1" would look like a stock query on its own; the
		// guard keeps it tied to the pending command
		{text: `{"action": "CHECK_STOCK", "confidence": 0.9, "reasoning": "mentions a rack"}`},
		{text: `{"parameters": {}, "confidence": 0.6}`},
	}}
	executor := newFakeExecutor()
	executor.results[ActionAddStock] = &CommandResult{Success: true, Message: "Added 5 M10 nuts to rack 1."}
	manager := newTestManager(completer, executor)

	out, err := manager.ProcessTurn(context.Background(), "u1", "add 5 M10 nuts")
	require.NoError(t, err)
	require.NotNil(t, out.Pending)
	assert.Equal(t, []string{"location"}, out.Pending.MissingFields)

	out, err = manager.ProcessTurn(context.Background(), "u1", "rack 1")
	require.NoError(t, err)

	assert.True(t, out.Done)
	require.Len(t, executor.calls, 1)
	assert.Equal(t, ActionAddStock, executor.calls[0].action)
	assert.Equal(t, "rack 1", executor.calls[0].params["location"])
}

func TestProcessTurnUnclearQuery(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "UNCLEAR_QUERY", "confidence": 0.8, "reasoning": "not a command"}`},
	}}
	executor := newFakeExecutor()
	manager := newTestManager(completer, executor)

	out, err := manager.ProcessTurn(context.Background(), "u1", "nice weather today")
	require.NoError(t, err)

	assert.Contains(t, out.Message, "didn't catch")
	assert.Nil(t, out.Pending)
	assert.Empty(t, executor.calls)
	// only the classifier ran
	assert.Len(t, completer.tiers, 1)
}

func TestProcessTurnErrorLeavesPendingIntact(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "ADD_STOCK", "confidence": 0.9, "reasoning": "adding stock"}`},
		{text: `{"parameters": {"item": "M10 nuts", "quantity": 5}, "confidence": 0.85}`},
		// both tiers fail on the next turn
		{err: errors.New("model unavailable")},
		{err: errors.New("model unavailable")},
	}}
	manager := newTestManager(completer, newFakeExecutor())

	_, err := manager.ProcessTurn(context.Background(), "u1", "add 5 M10 nuts")
	require.NoError(t, err)
	require.True(t, manager.HasPending("u1"))

	_, err = manager.ProcessTurn(context.Background(), "u1", "rack 1")
	require.Error(t, err)

	// the stored prompt can be answered again on the next turn
	assert.True(t, manager.HasPending("u1"))
}

func TestProcessTurnMidDialogueInstructionIsReadAsReply(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "ADD_PRODUCT", "confidence": 0.9, "reasoning": "new item"}`},
		{text: `{"parameters": {"name": "cable"}, "confidence": 0.85}`},
		// the new-sounding instruction still feeds the pending command
		{text: `{"action": "CREATE_JOB", "confidence": 0.9, "reasoning": "booking words"}`},
		{text: `{"parameters": {}, "confidence": 0.6}`},
	}}
	executor := newFakeExecutor()
	manager := newTestManager(completer, executor)

	out, err := manager.ProcessTurn(context.Background(), "u1", "add new item cable")
	require.NoError(t, err)
	require.NotNil(t, out.Pending)

	out, err = manager.ProcessTurn(context.Background(), "u1", "book a job for Mrs Hughes")
	require.NoError(t, err)

	// no job was started; the pending product command still governs
	assert.Empty(t, executor.calls)
	require.NotNil(t, out.Pending)
	assert.Equal(t, ActionAddProduct, out.Pending.Action)
}

func TestProcessTurnRecordsConversation(t *testing.T) {
	completer := &fakeCompleter{responses: []scripted{
		{text: `{"action": "UNCLEAR_QUERY", "confidence": 0.8, "reasoning": "not a command"}`},
	}}
	store := newMemoryConversations()
	manager := NewManager(completer, newFakeExecutor(), newFakeCatalog(), store, nopLogger{})

	_, err := manager.ProcessTurn(context.Background(), "u1", "hello there")
	require.NoError(t, err)

	history, err := store.GetUserHistory(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// newest first
	assert.Equal(t, "assistant", history[0].Role)
	assert.Equal(t, "user", history[1].Role)
	assert.Equal(t, "hello there", history[1].Content)
}
