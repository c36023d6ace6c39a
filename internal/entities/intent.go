package entities

// Intent is the classified meaning of one inbound message.
type Intent int

const (
	IntentUnrecognized Intent = iota
	IntentGreeting
	IntentServiceSelect
	IntentFileUpload
	IntentFeedbackYes
	IntentFeedbackNo
	IntentPaymentQuery
)

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "greeting"
	case IntentServiceSelect:
		return "service_select"
	case IntentFileUpload:
		return "file_upload"
	case IntentFeedbackYes:
		return "feedback_yes"
	case IntentFeedbackNo:
		return "feedback_no"
	case IntentPaymentQuery:
		return "payment_query"
	default:
		return "unrecognized"
	}
}

// Classification is an Intent plus the selected service code, when any.
type Classification struct {
	Intent      Intent
	ServiceCode int // set only for IntentServiceSelect
}

// ConversationState is the dispatch state machine position of a session.
type ConversationState int

const (
	StateIdle ConversationState = iota
	StateMenuShown
	StateServiceChosen
	StateAwaitingFeedback
)

func (s ConversationState) String() string {
	switch s {
	case StateMenuShown:
		return "menu_shown"
	case StateServiceChosen:
		return "service_chosen"
	case StateAwaitingFeedback:
		return "awaiting_feedback"
	default:
		return "idle"
	}
}
