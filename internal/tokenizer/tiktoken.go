package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// tiktokenCounter counts tokens with a resolved tiktoken encoding. Name
// reports which model or encoding the counts were produced with, so the run
// summary can label the total.
type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("tokenizer encoding not initialized")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
