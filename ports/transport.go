package ports

import (
	"net/http"

	"github.com/layer-3/siws/core"
)

// SessionTransport attaches an established session to the outgoing response,
// typically as a cookie. It never decides whether a session exists.
type SessionTransport interface {
	AttachSession(w http.ResponseWriter, session *core.Session) error
}
