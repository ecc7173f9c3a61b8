package output

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// TokenEncoding is the BPE encoding used to size artifacts for a model's
// context window.
const TokenEncoding = "cl100k_base"

// The offline loader embeds the BPE ranks, so counting never touches the network.
var loadEncoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	return tiktoken.GetEncoding(TokenEncoding)
})

// CountTokens returns the number of tokens text encodes to. Special token
// markers in repository files are counted as ordinary text.
func CountTokens(text string) (int, error) {
	enc, err := loadEncoding()
	if err != nil {
		return 0, fmt.Errorf("failed to load %s encoding: %w", TokenEncoding, err)
	}
	return len(enc.EncodeOrdinary(text)), nil
}
