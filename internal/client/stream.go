package client

import (
	"bufio"
	"io"
	"strings"
)

// StreamEvent is one server-sent event: a name and its raw data payload.
type StreamEvent struct {
	Name string
	Data string
}

// DecodeStream reads text/event-stream frames from r and invokes fn for each
// complete event. It returns when the stream ends or fn reports an error.
// Comment lines are skipped; multi-line data fields are joined with newlines
// per the SSE framing rules.
func DecodeStream(r io.Reader, fn func(StreamEvent) error) error {
	reader := bufio.NewReader(r)
	var name string
	var dataLines []string

	flush := func() error {
		if name == "" && len(dataLines) == 0 {
			return nil
		}
		ev := StreamEvent{Name: name, Data: strings.Join(dataLines, "\n")}
		name = ""
		dataLines = nil
		return fn(ev)
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if flushErr := flush(); flushErr != nil {
					return flushErr
				}
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}
