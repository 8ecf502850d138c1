package engine

// Notice is a non-error outcome signal attached to a successful mutation so
// callers can surface user-facing feedback. An empty notice means nothing
// noteworthy happened.
type Notice string

const (
	NoticeNone                Notice = ""
	NoticeAdded               Notice = "ADDED"
	NoticeUpdated             Notice = "UPDATED"
	NoticeRemoved             Notice = "REMOVED"
	NoticeStockLimit          Notice = "STOCK_LIMIT"
	NoticeAddedToWishlist     Notice = "ADDED_TO_WISHLIST"
	NoticeRemovedFromWishlist Notice = "REMOVED_FROM_WISHLIST"
)
