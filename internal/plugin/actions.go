package plugin

import "context"

// Action is a user command such as starting the service.
type Action func(ctx context.Context) error

// Actions are the commands interactive hosts offer. Nil entries are hidden.
type Actions struct {
	Start      Action
	Stop       Action
	Restart    Action
	Install    Action
	OpenLogs   Action
	OpenConfig Action
}
