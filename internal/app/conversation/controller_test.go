package conversation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-chat/internal/adapters/llm"
	"github.com/PabloGalante/farum-chat/internal/app/conversation"
	"github.com/PabloGalante/farum-chat/internal/domain"
)

type fakeDisplay struct {
	submit   func(string)
	pending  []bool
	rendered [][]domain.Turn
}

func (d *fakeDisplay) RawInput() string              { return "" }
func (d *fakeDisplay) OnSubmit(cb func(text string)) { d.submit = cb }
func (d *fakeDisplay) Render(turns []domain.Turn)    { d.rendered = append(d.rendered, turns) }
func (d *fakeDisplay) ShowPending(p bool)            { d.pending = append(d.pending, p) }

func TestControllerRendersAfterSubmit(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, stubReply("Hi there"), conversation.Options{})
	display := &fakeDisplay{}

	c := conversation.NewController(svc, display, "")
	c.Attach(ctx)
	require.NotNil(t, display.submit)

	display.submit("Hello")

	assert.Equal(t, []bool{true, false}, display.pending)
	require.Len(t, display.rendered, 1)
	require.Len(t, display.rendered[0], 2)
	assert.Equal(t, "Hello", display.rendered[0][0].Content)
	assert.Equal(t, "Hi there", display.rendered[0][1].Content)
	assert.NotEmpty(t, c.SessionID())

	// the same session keeps accumulating
	display.submit("More")
	require.Len(t, display.rendered, 2)
	assert.Len(t, display.rendered[1], 4)
}

func TestControllerIgnoresBlankInput(t *testing.T) {
	ctx := context.Background()
	mock := llm.NewMockLLM()
	svc := newService(t, mock, conversation.Options{})
	display := &fakeDisplay{}

	c := conversation.NewController(svc, display, "fixed")
	c.Handle(ctx, "   ")

	assert.Empty(t, display.pending)
	assert.Empty(t, display.rendered)
	assert.Empty(t, mock.Calls())
	assert.Equal(t, domain.SessionID("fixed"), c.SessionID())
}

func TestControllerRendersErrorTurn(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, networkFault(), conversation.Options{})
	display := &fakeDisplay{}

	conversation.NewController(svc, display, "s1").Handle(ctx, "test")

	require.Len(t, display.rendered, 1)
	require.Len(t, display.rendered[0], 2)
	assert.Equal(t, domain.RoleError, display.rendered[0][1].Role)
}
