package ai

import "context"

// Agent is the external analysis agent. It knows nothing about chat history or HTTP:
// it gets one query plus the resolved configuration and answers with text.
type Agent interface {
	Run(
		ctx context.Context,
		query string,
		cfg Configuration,
	) (string, error)
}
