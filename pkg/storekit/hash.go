package storekit

import "github.com/LumeraProtocol/pastadrop/pkg/utils"

// ContentAddress returns the lower-case hex SHA-256 digest of data. The
// same bytes always give the same address.
func ContentAddress(data []byte) string {
	return utils.Sha256Hex(data)
}

// ItemHash returns the hex SHA-256 digest of serialized item content.
func ItemHash(serialized []byte) string {
	return utils.Sha256Hex(serialized)
}
