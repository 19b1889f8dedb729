package storekit

import "strings"

// BuildVerificationBuffer returns the bytes a wallet signs for a message:
// chain, sender, message type and item hash joined by newlines.
func BuildVerificationBuffer(chain Chain, sender, itemHash string) []byte {
	var b strings.Builder
	b.Grow(len(chain) + len(sender) + len(MessageTypeStore) + len(itemHash) + 3)
	b.WriteString(string(chain))
	b.WriteByte('\n')
	b.WriteString(sender)
	b.WriteByte('\n')
	b.WriteString(MessageTypeStore)
	b.WriteByte('\n')
	b.WriteString(itemHash)
	return []byte(b.String())
}
