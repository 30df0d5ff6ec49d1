package ghost

// Msg is a request to perform a single ledger operation. All state
// transitions are driven by messages.
type Msg interface {
	// Path returns the name of the operation. This is used by the
	// router to locate the proper Handler. Must be alphanumeric
	// [0-9a-z_]+.
	Path() string

	// Validate performs all stateless checks of the message content.
	Validate() error
}

// Handler is a core engine that can process a few specific messages.
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of an
// operation without applying it. It is its own interface to allow
// better type controls in decorators.
type Checker interface {
	Check(ctx Context, store KVStore, msg Msg) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute an operation.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, msg Msg) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckResult captures any non-error metadata from a dry-run of an
// operation.
type CheckResult struct {
	// GasAllocated is the maximum units of work we allow this
	// operation to perform.
	GasAllocated int64
}

// DeliverResult captures any non-error metadata from executing an
// operation.
type DeliverResult struct {
	// Data is an operation specific response value, if any.
	Data []byte

	// Notifications to deliver to external parties once the operation
	// has been committed. They must never influence the outcome of the
	// operation itself.
	Notifications []Notification
}

// Notification is an outbound, fire-and-forget message for an external
// party. Notifications are collected while an operation executes and
// flushed only after its writes have been committed, so a rejected
// operation notifies no one.
type Notification struct {
	// Recipient of the notification.
	Recipient Address

	// Path of the operation that produced the notification.
	Path string

	// Payload carries operation specific data, if any.
	Payload []byte
}

// Notifier delivers committed notifications to the outside world.
type Notifier interface {
	Notify(Notification)
}

// Notifications collects outbound notifications during a single
// operation.
type Notifications struct {
	list []Notification
}

// Add appends a notification for the given recipient.
func (n *Notifications) Add(recipient Address, path string, payload []byte) {
	n.list = append(n.list, Notification{
		Recipient: recipient.Clone(),
		Path:      path,
		Payload:   payload,
	})
}

// List returns all collected notifications in emission order.
func (n *Notifications) List() []Notification {
	return n.list
}
