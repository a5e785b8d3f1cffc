package accounts

import "golang.org/x/crypto/bcrypt"

func init() {
	hashCost = bcrypt.MinCost
}

// HashCost exposes the work factor new hashes use
func HashCost() int {
	return hashCost
}
