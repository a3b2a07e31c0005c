package model

// ErrorKind classifies domain errors so transports can pick a status.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindArchived
	KindTooLarge
	KindInvalid
)

// Error is an expected, caller-recoverable domain rule violation.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrScreenNotFound     = &Error{Kind: KindNotFound, Message: "screen not found"}
	ErrSlideNotFound      = &Error{Kind: KindNotFound, Message: "slide not found"}
	ErrSlideGroupNotFound = &Error{Kind: KindNotFound, Message: "slide group not found"}
	ErrSlideArchived      = &Error{Kind: KindArchived, Message: "slide is archived and can't be edited"}
	ErrSlideGroupArchived = &Error{Kind: KindArchived, Message: "slide group is archived and can't be edited"}
	ErrFileTooBig         = &Error{Kind: KindTooLarge, Message: "file is too big"}
)
