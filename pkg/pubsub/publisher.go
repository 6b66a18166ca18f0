package pubsub

import "context"

// Pack is a single message on the wire. Key is used for partitioning.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
	Stop(context.Context) error
}
