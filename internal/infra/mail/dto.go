package mail

// MessageData is what templates can reference.
type MessageData struct {
	FirstName     string
	LastName      string
	Name          string
	Email         string
	Program       string
	Stage         string
	PreviousStage string
	Template      string
}

type OutboxSender struct {
	Dir  string
	From string
}
