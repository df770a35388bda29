package session

import "github.com/hongminglow/authflow/internal/models"

// State is the client's view of the session.
type State int

const (
	// StatePending means Initialize has not completed yet.
	StatePending State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent read of the controller's state. User is nil unless authenticated.
type Snapshot struct {
	State State
	User  *models.User
}

// Authenticated reports whether the snapshot carries a verified user.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Route is a navigation target emitted by the controller.
type Route string

const (
	RouteHome    Route = "/"
	RouteProfile Route = "/profile"
	RouteSuccess Route = "/success"
)

// Navigator receives navigation effects. Implementations decide what "navigate" means for their UI.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) { f(route) }

type noopNavigator struct{}

func (noopNavigator) Navigate(Route) {}
