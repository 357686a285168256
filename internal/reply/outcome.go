package reply

// Intent is the closed classification of a rendered message.
type Intent string

const (
	IntentInfo     Intent = "info"
	IntentUser     Intent = "user"
	IntentTasks    Intent = "tasks"
	IntentAdd      Intent = "add"
	IntentRemove   Intent = "remove"
	IntentComplete Intent = "complete"
	IntentChat     Intent = "chat"
	IntentError    Intent = "error"
)

// Intents lists every intent.
var Intents = []Intent{
	IntentInfo, IntentUser, IntentTasks, IntentAdd,
	IntentRemove, IntentComplete, IntentChat, IntentError,
}

// Valid reports whether i belongs to the closed enumeration.
func (i Intent) Valid() bool {
	for _, v := range Intents {
		if i == v {
			return true
		}
	}
	return false
}

// Outcome is the single interpretation of a response's optional-field
// combination. Exactly one variant is produced per response.
type Outcome interface {
	Intent() Intent
	outcome()
}

// Informational carries no action signal.
type Informational struct{}

// Listed carries a task listing.
type Listed struct{ Lines []string }

// Added signals that a task was created.
type Added struct{}

// Removed signals that a task was deleted.
type Removed struct{}

// Completed signals that a task was marked done.
type Completed struct{}

// Chatted is a free-text reply that performed no structured action.
type Chatted struct{ Text string }

func (Informational) Intent() Intent { return IntentInfo }
func (Listed) Intent() Intent        { return IntentTasks }
func (Added) Intent() Intent         { return IntentAdd }
func (Removed) Intent() Intent       { return IntentRemove }
func (Completed) Intent() Intent     { return IntentComplete }
func (Chatted) Intent() Intent       { return IntentChat }

func (Informational) outcome() {}
func (Listed) outcome()        {}
func (Added) outcome()         {}
func (Removed) outcome()       {}
func (Completed) outcome()     {}
func (Chatted) outcome()       {}

// Outcome resolves the response to one variant. Signals rank
// tasks < task_added < task_removed < task_completed < chat-without-action;
// the highest-ranked signal present wins.
func (r Response) Outcome() Outcome {
	switch {
	case r.chatReply():
		return Chatted{Text: r.Chat}
	case r.TaskCompleted.Set():
		return Completed{}
	case r.TaskRemoved.Set():
		return Removed{}
	case r.TaskAdded.Set():
		return Added{}
	case r.HasTasks():
		return Listed{Lines: r.Tasks}
	default:
		return Informational{}
	}
}

// chatReply reports whether the chat field is shown: an action suppresses it.
func (r Response) chatReply() bool {
	return r.Chat != "" && r.Action == ""
}
