package mazeprotocol

import "strings"

// ResponseParser classifies response lines received from the server.
type ResponseParser struct{}

// NewResponseParser creates a new response parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse classifies one response line. The line terminator must already be
// stripped. OVER is checked first so a finished session is recognised
// whatever command produced it.
func (p *ResponseParser) Parse(line string) (Response, error) {
	switch {
	case strings.HasPrefix(line, OverPrefix):
		return NewOverResponse(line[len(OverPrefix):]), nil
	case line == overWord:
		return NewOverResponse(""), nil
	case strings.HasPrefix(line, DataPrefix):
		return NewDataResponse(line[len(DataPrefix):]), nil
	case line == DoneLine:
		return NewDoneResponse(), nil
	case strings.HasPrefix(line, NopePrefix):
		return NewNopeResponse(line[len(NopePrefix):]), nil
	}
	return Response{}, newUnknownResponseError(line)
}
