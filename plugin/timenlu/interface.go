// Package timenlu resolves sequences of Chinese temporal tokens into concrete time
// results.
//
// A request carries the tokens produced by an upstream lexer and a base instant. The
// service validates the tokens, runs them through the merge cascade and renders every
// result as one or two "YYYY-MM-DDTHH:MM:SSZ" strings.
package timenlu

import (
	"context"
	"encoding/json"

	"github.com/y00281951/fst-time-nlu-sub002/plugin/timenlu/token"
)

// TimeResolver defines the resolution service interface.
// Consumers: the HTTP surface and the CLI.
type TimeResolver interface {
	// Resolve resolves one token sequence. Only malformed requests return an error;
	// an expression that names no time yields an empty result list.
	Resolve(ctx context.Context, req Request) (Response, error)

	// ResolveBatch resolves independent requests in parallel. A malformed request
	// reports its error in its own response; the batch fails only when ctx ends.
	ResolveBatch(ctx context.Context, reqs []Request) ([]Response, error)
}

// Request is one token sequence with its base instant.
type Request struct {
	// Base is the reference instant; empty means now in Timezone.
	Base string `json:"base,omitempty"`
	// Timezone names the zone whose wall clock the base is read in. Defaults to the
	// service zone.
	Timezone string `json:"timezone,omitempty"`
	// Tokens is the lexer output, in order.
	Tokens []token.Token `json:"tokens"`
}

// Response holds the rendered results of one request.
type Response struct {
	RequestID string `json:"request_id"`
	// Base is the base instant the request resolved against.
	Base string `json:"base"`
	// Results are points ([t]) or intervals ([start, end]) in emission order.
	Results [][]string `json:"results"`
	// Consumed is the number of tokens each merge step used.
	Consumed []int `json:"consumed"`
	// Error is set on a batch item whose request was malformed.
	Error string `json:"error,omitempty"`
}

// DecodeRequest parses a JSON request body. A bare token array is accepted as a
// request against the current instant.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err == nil {
		return req, nil
	}
	var toks []token.Token
	if err := json.Unmarshal(data, &toks); err != nil {
		return Request{}, err
	}
	return Request{Tokens: toks}, nil
}
