package keygen

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const lowerAlphaNumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// AccountID generates an account id: "acc_" followed by 10 random characters
func AccountID() (string, error) {
	suffix, err := randomString(10, lowerAlphaNumeric)
	if err != nil {
		return "", err
	}
	return "acc_" + suffix, nil
}

// TradeID generates a trade id in UUID form without hyphens
func TradeID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

var (
	transferMu   sync.Mutex
	lastTransfer int64
)

// TransferID generates a numeric transfer id from the current Unix time in
// milliseconds. Ids are strictly increasing within the process.
func TransferID() int64 {
	transferMu.Lock()
	defer transferMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= lastTransfer {
		id = lastTransfer + 1
	}
	lastTransfer = id
	return id
}

// randomString generates a random string of given length from the given charset
func randomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}

	return string(result), nil
}
