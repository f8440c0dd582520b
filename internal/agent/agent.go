package agent

import (
	"context"

	"storepilot/internal/model"
)

// Agent answers one chat request. Implementations keep no state between
// calls; the caller sends the history back each time.
type Agent interface {
	Name() string
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error)
}
