package transport

import "context"

// MessageHandler receives the serialized payload of one inbound message.
// Handlers are invoked from the transport's receive goroutines.
type MessageHandler func(payload []byte)

// Transport is a connection to a message broker that delivers messages to a
// given destination in send order. Connect must succeed before Subscribe or
// Publish are called. OnFailure registers a hook fired at most once when the
// connection fails after a successful Connect.
type Transport interface {
	Connect(ctx context.Context) error
	Subscribe(destination string, handler MessageHandler) error
	Publish(destination string, payload []byte) error
	Disconnect() error
	OnFailure(hook func(err error))
}
