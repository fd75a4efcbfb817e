// Package flows holds the view-local state machines behind the sign-in and
// assessment pages. Flows talk to the outside world only through the
// collaborator interfaces in this package, so pages can be tested with fakes
// and presented by any front end.
//
// All flow methods are safe for concurrent use. External calls run without
// the flow's lock held; a generation counter makes their results no-ops once
// the flow has been reset or closed.
package flows
