package http

import (
	"context"
	"net/http"

	"github.com/mapcrew-lab/taskcoord/pkg/domain/types"
)

// ActorHeader carries the authenticated actor identity. Authentication
// itself happens upstream; this surface only trusts the header it is
// handed.
const ActorHeader = "X-Actor-ID"

type ctxActorKey struct{}

// actorMiddleware stores the actor identity from the request header in
// the context. Handlers that mutate state reject requests without one.
func actorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor := r.Header.Get(ActorHeader); actor != "" {
			ctx := context.WithValue(r.Context(), ctxActorKey{}, types.UserID(actor))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func actorFrom(ctx context.Context) (types.UserID, bool) {
	actor, ok := ctx.Value(ctxActorKey{}).(types.UserID)
	return actor, ok
}

// requireActor extracts the actor or writes a 400 response. The bool
// reports whether the handler may proceed.
func requireActor(w http.ResponseWriter, r *http.Request) (types.UserID, bool) {
	actor, ok := actorFrom(r.Context())
	if !ok {
		http.Error(w, "missing "+ActorHeader+" header", http.StatusBadRequest)
		return "", false
	}
	return actor, true
}
