package domain

import (
	"github.com/google/uuid"
)

// Table is a mongo collection name
type Table string

const (
	TableSaleObjects  Table = "sale_objects"
	TableBids         Table = "bids"
	TableOffers       Table = "offers"
	TableTransactions Table = "transactions"
	TableBidHeads     Table = "bid_heads"
)

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// NewID returns a new random id for objects, bids, offers and transactions
func NewID() string {
	return uuid.NewString()
}
