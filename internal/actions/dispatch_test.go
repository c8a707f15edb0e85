package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/persist"
	"github.com/mirageos/backend/internal/vfs"
)

type recordingEmitter struct {
	actions []string
	fields  []map[string]interface{}
}

func (r *recordingEmitter) Emit(action string, fields map[string]interface{}) {
	r.actions = append(r.actions, action)
	r.fields = append(r.fields, fields)
}

func newDispatcher(t *testing.T) (*Dispatcher, *vfs.Store, *recordingEmitter) {
	t.Helper()
	store := vfs.NewStore(persist.NewMemory(), logging.Nop())
	emitter := &recordingEmitter{}
	return NewDispatcher(store, emitter, logging.Nop()), store, emitter
}

func TestCreateFileAction(t *testing.T) {
	d, store, _ := newDispatcher(t)

	msg := `{"appId":"file-explorer","action":"createFile","payload":{"parentPath":"/Documents","fileName":"note.txt","content":"hello"}}`
	require.NoError(t, d.Dispatch([]byte(msg)))

	content, ok := store.ReadFile("/Documents/note.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", content)
}

func TestCreateFileActionRejections(t *testing.T) {
	d, _, _ := newDispatcher(t)

	assert.Error(t, d.Dispatch([]byte(`{"appId":"file-explorer","action":"createFile","payload":{}}`)),
		"missing payload fields")
	assert.Error(t, d.Dispatch([]byte(`{"appId":"file-explorer","action":"createFile","payload":{"parentPath":"/missing","fileName":"a"}}`)),
		"store rejection surfaces as an error")
}

func TestCorruptFilesystemAction(t *testing.T) {
	d, store, _ := newDispatcher(t)

	require.NoError(t, d.Dispatch([]byte(`{"action":"corrupt-filesystem"}`)))
	assert.True(t, store.Corrupted())
}

func TestFactoryResetAction(t *testing.T) {
	d, store, _ := newDispatcher(t)

	require.NoError(t, d.Dispatch([]byte(`{"action":"corrupt-filesystem"}`)))
	require.NoError(t, d.Dispatch([]byte(`{"action":"factory-reset"}`)))

	assert.False(t, store.Corrupted())
	_, ok := store.GetNode("/Documents/welcome.txt")
	assert.True(t, ok)
}

func TestForwardedOSActions(t *testing.T) {
	d, _, emitter := newDispatcher(t)

	require.NoError(t, d.Dispatch([]byte(`{"action":"open-app","app":"calculator"}`)))
	require.NoError(t, d.Dispatch([]byte(`{"action":"set-wallpaper","url":"sunset.png"}`)))

	require.Len(t, emitter.actions, 2)
	assert.Equal(t, "open-app", emitter.actions[0])
	assert.Equal(t, "calculator", emitter.fields[0]["app"])
}

func TestForwardedAppActions(t *testing.T) {
	d, _, emitter := newDispatcher(t)

	require.NoError(t, d.Dispatch([]byte(`{"appId":"music","action":"play","payload":{"track":"one"}}`)))
	require.Len(t, emitter.actions, 1)
	assert.Equal(t, "music:play", emitter.actions[0])
}

func TestDispatchErrors(t *testing.T) {
	d, _, _ := newDispatcher(t)

	assert.Error(t, d.Dispatch([]byte(`not json`)))
	assert.Error(t, d.Dispatch([]byte(`{}`)), "action field required")
	assert.Error(t, d.Dispatch([]byte(`{"action":"self-destruct"}`)), "unknown os action")
}
