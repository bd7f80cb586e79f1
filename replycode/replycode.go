// Package replycode holds the fixed protocol reply-code taxonomy: an integer
// code to description mapping partitioned into soft (channel-scoped,
// recoverable) and hard (connection-scoped, fatal) categories. The table is
// data only; nothing here computes.
package replycode

// Code is a protocol reply code.
type Code int

// Protocol reply codes.
const (
	NotDelivered       Code = 310
	ContentTooLarge    Code = 311
	NoRoute            Code = 312
	NoConsumers        Code = 313
	ConnectionForced   Code = 320
	InvalidPath        Code = 402
	AccessRefused      Code = 403
	NotFound           Code = 404
	ResourceLocked     Code = 405
	PreconditionFailed Code = 406
	FrameError         Code = 501
	SyntaxError        Code = 502
	CommandInvalid     Code = 503
	ChannelError       Code = 504
	ResourceError      Code = 506
	NotAllowed         Code = 530
	NotImplemented     Code = 540
	InternalError      Code = 541
)

// Category partitions reply codes by scope.
type Category int

// Reply code categories.
const (
	// CategoryUnknown is reported for codes outside the taxonomy.
	CategoryUnknown Category = iota

	// CategorySoft marks transient, channel-scoped errors.
	CategorySoft

	// CategoryHard marks fatal, connection-scoped errors.
	CategoryHard
)

var names = map[Code]string{
	NotDelivered:       "not-delivered",
	ContentTooLarge:    "content-too-large",
	NoRoute:            "no-route",
	NoConsumers:        "no-consumers",
	ConnectionForced:   "connection-forced",
	InvalidPath:        "invalid-path",
	AccessRefused:      "access-refused",
	NotFound:           "not-found",
	ResourceLocked:     "resource-locked",
	PreconditionFailed: "precondition-failed",
	FrameError:         "frame-error",
	SyntaxError:        "syntax-error",
	CommandInvalid:     "command-invalid",
	ChannelError:       "channel-error",
	ResourceError:      "resource-error",
	NotAllowed:         "not-allowed",
	NotImplemented:     "not-implemented",
	InternalError:      "internal-error",
}

var descriptions = map[Code]string{
	NotDelivered:       "The client asked for a specific message that is no longer available. The message was delivered to another client, or was purged from the queue for some other reason.",
	ContentTooLarge:    "The client attempted to transfer content larger than the server could accept at the present time. The client may retry at a later time.",
	NoRoute:            "When the exchange cannot route the result of a .Publish, most likely due to an invalid routing key. Only when the mandatory flag is set.",
	NoConsumers:        "When the exchange cannot deliver to a consumer when the immediate flag is set. As a result of pending data on the queue or the absence of any consumers of the queue.",
	ConnectionForced:   "An operator intervened to close the connection for some reason. The client may retry at some later date.",
	InvalidPath:        "The client tried to work with an unknown virtual host.",
	AccessRefused:      "The client attempted to work with a server entity to which it has no access due to security settings.",
	NotFound:           "The client attempted to work with a server entity that does not exist.",
	ResourceLocked:     "The client attempted to work with a server entity to which it has no access because another client is working with it.",
	PreconditionFailed: "The client requested a method that was not allowed because some precondition failed.",
	FrameError:         "The client sent a malformed frame that the server could not decode. This strongly implies a programming error in the client.",
	SyntaxError:        "The client sent a frame that contained illegal values for one or more fields. This strongly implies a programming error in the client.",
	CommandInvalid:     "The client sent an invalid sequence of frames, attempting to perform an operation that was considered invalid by the server. This usually implies a programming error in the client.",
	ChannelError:       "The client attempted to work with a channel that had not been correctly opened. This most likely indicates a fault in the client layer.",
	ResourceError:      "The server could not complete the method because it lacked sufficient resources. This may be due to the client creating too many of some type of entity.",
	NotAllowed:         "The client tried to work with some entity in a manner that is prohibited by the server, due to security settings or by some other criteria.",
	NotImplemented:     "The client tried to use functionality that is not implemented in the server.",
	InternalError:      "The server could not complete the method because of an internal error. The server may require intervention by an operator in order to resume normal operations.",
}

var categories = map[Code]Category{
	NotDelivered:       CategorySoft,
	ContentTooLarge:    CategorySoft,
	NoRoute:            CategorySoft,
	NoConsumers:        CategorySoft,
	AccessRefused:      CategorySoft,
	NotFound:           CategorySoft,
	ResourceLocked:     CategorySoft,
	PreconditionFailed: CategorySoft,
	ConnectionForced:   CategoryHard,
	InvalidPath:        CategoryHard,
	FrameError:         CategoryHard,
	SyntaxError:        CategoryHard,
	CommandInvalid:     CategoryHard,
	ChannelError:       CategoryHard,
	ResourceError:      CategoryHard,
	NotAllowed:         CategoryHard,
	NotImplemented:     CategoryHard,
	InternalError:      CategoryHard,
}

// String returns the code's symbolic name, empty for unknown codes.
func (c Code) String() string { return names[c] }

// Description returns the fixed description, empty for unknown codes.
func (c Code) Description() string { return descriptions[c] }

// Category returns the code's scope category.
func (c Code) Category() Category { return categories[c] }

// IsSoft reports whether the code is channel-scoped and recoverable.
func (c Code) IsSoft() bool { return categories[c] == CategorySoft }

// IsHard reports whether the code is connection-scoped and fatal.
func (c Code) IsHard() bool { return categories[c] == CategoryHard }

// Codes returns every known reply code in ascending order.
func Codes() []Code {
	return []Code{
		NotDelivered, ContentTooLarge, NoRoute, NoConsumers, ConnectionForced,
		InvalidPath, AccessRefused, NotFound, ResourceLocked, PreconditionFailed,
		FrameError, SyntaxError, CommandInvalid, ChannelError, ResourceError,
		NotAllowed, NotImplemented, InternalError,
	}
}
