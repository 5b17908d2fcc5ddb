package session_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"linkedin-poster/session"
)

func TestAppendLogKeepsMostRecentLines(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	for i := 0; i < session.MaxLogLines+50; i++ {
		sess.AppendLog(fmt.Sprintf("line %d", i))
	}

	logs := sess.Logs()
	assert.Len(t, logs, session.MaxLogLines)
	assert.Equal(t, "line 50", logs[0])
	assert.Equal(t, fmt.Sprintf("line %d", session.MaxLogLines+49), logs[len(logs)-1])
}

func TestKeysStickAcrossActions(t *testing.T) {
	store := session.NewStore()
	sess := store.Create()

	sess.SetGeminiKey("gk-1")
	sess.SetLinkedInKey("lk-1")

	// Empty input must not wipe a previously supplied key.
	sess.SetGeminiKey("")
	sess.SetLinkedInKey("")

	assert.Equal(t, "gk-1", sess.GeminiKey())
	assert.Equal(t, "lk-1", sess.LinkedInKey())
}

func TestStoreGetOrCreate(t *testing.T) {
	store := session.NewStore()

	created := store.GetOrCreate("")
	assert.NotEmpty(t, created.ID)

	same := store.GetOrCreate(created.ID)
	assert.Same(t, created, same)

	// Unknown ids (e.g. after a restart) get a fresh session.
	fresh := store.GetOrCreate("unknown-id")
	assert.NotEqual(t, created.ID, fresh.ID)

	store.Delete(created.ID)
	_, ok := store.Get(created.ID)
	assert.False(t, ok)
}
