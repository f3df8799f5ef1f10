package charcountd

import (
	"github.com/valyala/fasthttp"

	"github.com/riftbit/charcountd/charcount"
)

// TextAPI exposes the text methods of the service. Registered with an
// empty service name, its only method answers to "char_count".
type TextAPI struct{}

// CharCountArgs - params of the char_count method
type CharCountArgs struct {
	SomeString string `json:"some_string"`
}

// CharCountReply - result of the char_count method
type CharCountReply struct {
	Count int `json:"count"`
}

// CharCount counts user-perceived characters in the trimmed input string.
// It cannot fail for any string input.
func (h *TextAPI) CharCount(ctx *fasthttp.RequestCtx, args *CharCountArgs, reply *CharCountReply) error {
	reply.Count = charcount.Count(args.SomeString)
	return nil
}
