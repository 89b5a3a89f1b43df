package agentrt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tokenizerCache   = make(map[string]*tiktoken.Tiktoken)
	tokenizerCacheMu sync.RWMutex
)

// tokenizerFor returns a cached tiktoken encoder for the model,
// falling back to cl100k_base for models tiktoken doesn't know.
func tokenizerFor(model string) (*tiktoken.Tiktoken, error) {
	tokenizerCacheMu.RLock()
	if tkm, ok := tokenizerCache[model]; ok {
		tokenizerCacheMu.RUnlock()
		return tkm, nil
	}
	tokenizerCacheMu.RUnlock()

	tokenizerCacheMu.Lock()
	defer tokenizerCacheMu.Unlock()
	if tkm, ok := tokenizerCache[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	tokenizerCache[model] = tkm
	return tkm, nil
}

// EstimateTokens counts tokens in text for the given model. Used to
// budget the rolling conversation context; a tokenizer failure falls
// back to a bytes/4 estimate rather than blocking the turn.
func EstimateTokens(text, model string) int {
	tkm, err := tokenizerFor(model)
	if err != nil {
		return len(text) / 4
	}
	return len(tkm.Encode(text, nil, nil))
}
