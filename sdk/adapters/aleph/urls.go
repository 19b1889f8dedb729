package aleph

import (
	"fmt"
	"net/url"
)

const (
	addFilePath = "/api/v0/storage/add_file"
	rawPath     = "/storage/raw/"
)

// RawURL is where gateway serves the bytes stored under address.
func RawURL(gateway, address string) string {
	return gateway + rawPath + url.PathEscape(address)
}

// ExplorerURL links to the STORE message in the Aleph explorer.
func ExplorerURL(explorer, chain, sender, itemHash string) string {
	return fmt.Sprintf("%s/address/%s/%s/message/STORE/%s",
		explorer, url.PathEscape(chain), url.PathEscape(sender), url.PathEscape(itemHash))
}

func (a *Adapter) RawURL(address string) string { return RawURL(a.gateway, address) }

func (a *Adapter) ExplorerURL(chain, sender, itemHash string) string {
	return ExplorerURL(a.explorerURL, chain, sender, itemHash)
}
