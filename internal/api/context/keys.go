package context

type Key string

const (
	Params    Key = "params"
	Session   Key = "session"
	Localizer Key = "localizer"
)
