package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ResultPage is one decoded search response.
// NumFound is the total as of the request, stores may report a stale count under
// concurrent writes.
type ResultPage struct {
	NumFound   int64
	Docs       []Document
	NextCursor string
}

// Ack is the acknowledgement of a mutation.
type Ack struct {
	Status int
	QTime  int
}

type responseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}

type errorBody struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

type selectResponse struct {
	ResponseHeader responseHeader `json:"responseHeader"`
	Response       *struct {
		NumFound int64      `json:"numFound"`
		Docs     []Document `json:"docs"`
	} `json:"response"`
	NextCursorMark *string    `json:"nextCursorMark"`
	Error          *errorBody `json:"error"`
}

type updateResponse struct {
	ResponseHeader *responseHeader `json:"responseHeader"`
	Error          *errorBody      `json:"error"`
}

func decode(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(v)
}

func decodeSelect(op string, body []byte) (*ResultPage, error) {
	var res selectResponse
	if err := decode(body, &res); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if res.Error != nil {
		return nil, &StoreError{Op: op, Status: res.Error.Code, Message: res.Error.Msg}
	}
	if res.Response == nil {
		return nil, &DecodeError{Op: op, Err: errors.New("missing response section")}
	}
	if res.NextCursorMark == nil {
		return nil, &DecodeError{Op: op, Err: errors.New("missing nextCursorMark")}
	}
	return &ResultPage{
		NumFound:   res.Response.NumFound,
		Docs:       res.Response.Docs,
		NextCursor: *res.NextCursorMark,
	}, nil
}

func decodeUpdate(op string, body []byte) (*Ack, error) {
	var res updateResponse
	if err := decode(body, &res); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if res.Error != nil {
		return nil, &StoreError{Op: op, Status: res.Error.Code, Message: res.Error.Msg}
	}
	if res.ResponseHeader == nil {
		return nil, &DecodeError{Op: op, Err: errors.New("missing responseHeader")}
	}
	if res.ResponseHeader.Status != 0 {
		return nil, &StoreError{Op: op, Status: res.ResponseHeader.Status, Message: "non-zero response status"}
	}
	return &Ack{Status: res.ResponseHeader.Status, QTime: res.ResponseHeader.QTime}, nil
}

// errorFromStatus turns a non-2xx response into a StoreError, using the store's own
// message when the body carries one.
func errorFromStatus(op string, status int, body []byte) error {
	var res struct {
		Error *errorBody `json:"error"`
	}
	if err := json.Unmarshal(body, &res); err == nil && res.Error != nil && res.Error.Msg != "" {
		return &StoreError{Op: op, Status: status, Message: res.Error.Msg}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		msg = fmt.Sprintf("http status %d", status)
	}
	return &StoreError{Op: op, Status: status, Message: msg}
}
