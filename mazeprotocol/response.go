package mazeprotocol

import (
	"regexp"
	"strconv"
	"strings"
)

// ResponseKind classifies a response line.
type ResponseKind int

const (
	// ResponseDone acknowledges a void command.
	ResponseDone ResponseKind = iota
	// ResponseData carries one or more integers.
	ResponseData
	// ResponseNope rejects an action; Data holds the reason.
	ResponseNope
	// ResponseOver ends the session; Data holds the final report.
	ResponseOver
)

// String returns the protocol keyword of the kind.
func (k ResponseKind) String() string {
	switch k {
	case ResponseDone:
		return "DONE"
	case ResponseData:
		return "DATA"
	case ResponseNope:
		return "NOPE"
	case ResponseOver:
		return "OVER"
	default:
		return "UNKNOWN"
	}
}

// Response is one classified line received from the server.
type Response struct {
	Kind ResponseKind
	Data string // payload for DATA, reason for NOPE, report for OVER
}

var intPattern = regexp.MustCompile(`^-?[0-9]+$`)

// NewDoneResponse creates a DONE response.
func NewDoneResponse() Response {
	return Response{Kind: ResponseDone}
}

// NewDataResponse creates a DATA response with a raw payload.
func NewDataResponse(payload string) Response {
	return Response{Kind: ResponseData, Data: payload}
}

// NewIntsResponse creates a DATA response holding the given values.
func NewIntsResponse(values ...int) Response {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return NewDataResponse(strings.Join(parts, " "))
}

// NewNopeResponse creates a NOPE response.
func NewNopeResponse(reason string) Response {
	return Response{Kind: ResponseNope, Data: reason}
}

// NewOverResponse creates an OVER response.
func NewOverResponse(report string) Response {
	return Response{Kind: ResponseOver, Data: report}
}

// IsDone returns true for DONE.
func (r Response) IsDone() bool { return r.Kind == ResponseDone }

// IsData returns true for DATA.
func (r Response) IsData() bool { return r.Kind == ResponseData }

// IsNope returns true for NOPE.
func (r Response) IsNope() bool { return r.Kind == ResponseNope }

// IsOver returns true for OVER.
func (r Response) IsOver() bool { return r.Kind == ResponseOver }

// Format returns the response as it appears on the wire, without the line
// terminator.
func (r Response) Format() string {
	switch r.Kind {
	case ResponseDone:
		return DoneLine
	case ResponseData:
		return DataPrefix + r.Data
	case ResponseNope:
		return NopePrefix + r.Data
	case ResponseOver:
		return OverPrefix + r.Data
	default:
		return OverPrefix + "unknown response type"
	}
}

// Int returns the single integer carried by a DATA response.
func (r Response) Int() (int, error) {
	if r.Kind != ResponseData || !intPattern.MatchString(r.Data) {
		return 0, newMalformedDataError(r.Format())
	}
	n, err := strconv.Atoi(r.Data)
	if err != nil {
		return 0, newMalformedDataError(r.Format())
	}
	return n, nil
}

// Ints returns every integer carried by a DATA response. An empty payload
// yields an empty slice.
func (r Response) Ints() ([]int, error) {
	if r.Kind != ResponseData {
		return nil, newMalformedDataError(r.Format())
	}
	fields := strings.Fields(r.Data)
	values := make([]int, len(fields))
	for i, f := range fields {
		if !intPattern.MatchString(f) {
			return nil, newMalformedDataError(r.Format())
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, newMalformedDataError(r.Format())
		}
		values[i] = n
	}
	return values, nil
}
