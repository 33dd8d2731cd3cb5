package payload

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Digest returns the CIDv1 (raw codec, sha2-256) of the canonical payload
// bytes. It is logged as the answer key of a generated challenge.
func Digest(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}
