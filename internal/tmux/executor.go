package tmux

// Multiplexer abstracts the tmux operations the launcher needs so the
// session state machine can run against a fake.
type Multiplexer interface {
	HasSession(name string) (bool, error)
	CreateSession(name, dir string, layout []string) error
	SwitchClient(name, client string) error
	AttachSession(name string) error
	KillSession(name string) error
}
