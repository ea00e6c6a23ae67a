package httpx

import (
	"bytes"
	"maps"
	"net/http"
)

// ResponseBuffer captures a response so it can be inspected before it is sent.
type ResponseBuffer interface {
	http.ResponseWriter
	// Status is the written status code, 200 if only the body was written.
	Status() int
	Body() []byte
	Flush(w http.ResponseWriter) error
}

type responseBuffer struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func NewResponseBuffer() ResponseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (resp *responseBuffer) Status() int {
	if resp.status == 0 && resp.body.Len() > 0 {
		return http.StatusOK
	}
	return resp.status
}

func (resp *responseBuffer) Header() http.Header {
	return resp.header
}

func (resp *responseBuffer) Body() []byte {
	return resp.body.Bytes()
}

func (resp *responseBuffer) Write(body []byte) (int, error) {
	return resp.body.Write(body)
}

func (resp *responseBuffer) WriteHeader(statusCode int) {
	if resp.status == 0 {
		resp.status = statusCode
	}
}

func (resp *responseBuffer) Flush(w http.ResponseWriter) error {
	maps.Copy(w.Header(), resp.header)
	if resp.status != 0 {
		w.WriteHeader(resp.status)
	}
	if resp.body.Len() > 0 {
		_, err := w.Write(resp.body.Bytes())
		return err
	}
	return nil
}
