package errors

import "errors"

// ErrorDump flattens an error chain for structured logging.
type ErrorDump struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the unwrap chain and returns the pieces worth logging.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		dump.Chain = append(dump.Chain, cur.Error())
	}
	return dump
}
