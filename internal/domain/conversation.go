package domain

// Turn is one message in a conversation. Turns are values: once appended to
// a transcript they are never edited or removed.
type Turn struct {
	ID        TurnID
	Role      Role
	Content   string
	CreatedAt Timestamp
}

// Session is the conversation of one user context.
// The transcript lives for as long as the session does and is never persisted.
type Session struct {
	ID         SessionID
	CreatedAt  Timestamp
	Transcript TranscriptStore
}
