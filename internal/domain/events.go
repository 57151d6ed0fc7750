package domain

// Event types pushed to engine subscribers.
const (
	EventSession = "session"
	EventResult  = "result"
)

// Event is a snapshot broadcast after every engine transition.
// Session is nil when the engine is idle; Result is set only for EventResult.
type Event struct {
	Type    string   `json:"type"`
	Session *Session `json:"session,omitempty"`
	Result  *Result  `json:"result,omitempty"`
}
